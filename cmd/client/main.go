// Package main runs the interactive marketplace client: customers browse
// trades, open service requests, and exchange messages; administrators
// manage the catalog. Authentication state lives in the session manager
// and survives restarts through the persisted token.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ykaradag/ustahub/internal/client/api"
	"github.com/ykaradag/ustahub/internal/client/session"
	"github.com/ykaradag/ustahub/internal/client/storage"
	"github.com/ykaradag/ustahub/internal/config"
	"github.com/ykaradag/ustahub/internal/logger"
)

var (
	version   string
	buildDate string
)

var showVer = flag.Bool("version", false, "show build version and date")

// repl runs the interactive shell loop.
func repl(ctx context.Context, client *api.Client, mgr *session.Manager) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("ustahub> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			printHelp(mgr.IsAdmin())
		case "login":
			req := promptLogin(scanner)
			if err := mgr.Login(ctx, req); err != nil {
				printAuthFailure(err)
				continue
			}
			if claims := mgr.Claims(); claims != nil {
				fmt.Println("Logged in as", claims.Subject)
			}
		case "register":
			req := promptRegistration(scanner)
			if err := mgr.Register(ctx, req); err != nil {
				printAuthFailure(err)
				continue
			}
			if claims := mgr.Claims(); claims != nil {
				fmt.Println("Account created, logged in as", claims.Subject)
			}
		case "logout":
			mgr.Logout()
			fmt.Println("Logged out")
		case "whoami":
			claims := mgr.Claims()
			if claims == nil {
				fmt.Println("Not logged in")
				continue
			}
			fmt.Printf("Subject: %s\nAuthorities: %s\nAdmin: %v\n",
				claims.Subject, strings.Join(claims.Authorities, ", "), mgr.IsAdmin())
		case "profile":
			p := mgr.Profile()
			if p == nil {
				fmt.Println("No profile cached. Try 'refresh'.")
				continue
			}
			fmt.Printf("%s (%s)\nEmail: %s (verified: %v)\nPhone: %s\nAddress: %s\n",
				p.FullName, p.Username, p.Email, p.EmailVerified, p.Phone, p.Address)
		case "refresh":
			if !mgr.Authenticated() {
				fmt.Println("Not logged in")
				continue
			}
			mgr.RefreshProfile(ctx)
			if mgr.Profile() == nil {
				fmt.Println("Profile refresh failed")
			} else {
				fmt.Println("Profile refreshed")
			}
		case "passwd":
			req := promptChangePassword(scanner)
			if err := client.ChangePassword(ctx, req); err != nil {
				fmt.Println("Change password failed:", err)
				continue
			}
			fmt.Println("Password changed")
		case "forgot":
			if len(args) < 2 {
				fmt.Println("Usage: forgot <email>")
				continue
			}
			msg, err := client.ForgotPassword(ctx, args[1])
			if err != nil {
				fmt.Println("Request failed:", err)
				continue
			}
			fmt.Println(msg)
		case "ustalar":
			ustalar, err := client.Ustalar(ctx)
			if err != nil {
				fmt.Println("Failed to list trades:", err)
				continue
			}
			for _, u := range ustalar {
				fmt.Printf("%s  %s\n", u.ID, u.Name)
			}
		case "sorular":
			if len(args) < 2 {
				fmt.Println("Usage: sorular <usta>")
				continue
			}
			sorular, err := client.SorularByUsta(ctx, args[1])
			if err != nil {
				fmt.Println("Failed to list questions:", err)
				continue
			}
			for _, s := range sorular {
				fmt.Printf("%d. %s (%s)\n", s.Order, s.Question, s.Type)
			}
		case "hizmetler":
			hizmetler, err := client.Hizmetler(ctx)
			if err != nil {
				fmt.Println("Failed to list services:", err)
				continue
			}
			for _, h := range hizmetler {
				fmt.Printf("%s  %s\n", h.ID, h.Title)
			}
		case "requests":
			requests, err := client.MyRequests(ctx)
			if err != nil {
				fmt.Println("Failed to list requests:", err)
				continue
			}
			for _, r := range requests {
				fmt.Printf("%s  [%s]  %s (%d offers)\n", r.ID, r.Status, r.Title, len(r.Offers))
			}
		case "new-request":
			req := promptNewRequest(scanner)
			created, err := client.CreateRequest(ctx, req)
			if err != nil {
				fmt.Println("Failed to create request:", err)
				continue
			}
			fmt.Println("Request created:", created.ID)
		case "close":
			if len(args) < 2 {
				fmt.Println("Usage: close <id>")
				continue
			}
			if err := client.CloseMyRequest(ctx, args[1]); err != nil {
				fmt.Println("Failed to close request:", err)
				continue
			}
			fmt.Println("Request closed")
		case "replies":
			if len(args) < 2 {
				fmt.Println("Usage: replies <request-id>")
				continue
			}
			replies, err := client.RequestReplies(ctx, args[1])
			if err != nil {
				fmt.Println("Failed to list replies:", err)
				continue
			}
			for _, r := range replies {
				fmt.Printf("[%s] %s: %s\n", r.Date, r.SenderUsername, r.Text)
			}
		case "reply":
			if len(args) < 3 {
				fmt.Println("Usage: reply <request-id> <text>")
				continue
			}
			text := strings.Join(args[2:], " ")
			if _, err := client.PostReply(ctx, args[1], text); err != nil {
				fmt.Println("Failed to post reply:", err)
				continue
			}
			fmt.Println("Reply sent")
		case "admin":
			if !mgr.IsAdmin() {
				fmt.Println("Admin authority required")
				continue
			}
			adminCommand(ctx, client, scanner, args[1:])
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// printAuthFailure renders a login/register error, telling a rejected
// credential apart from an unreachable backend.
func printAuthFailure(err error) {
	if errors.Is(err, session.ErrSessionRejected) {
		fmt.Println("Authentication failed: the server rejected the new session")
		return
	}
	if api.IsAuthRejected(err) {
		fmt.Println("Authentication failed: check your credentials")
		return
	}
	if apiErr, ok := api.AsError(err); ok {
		fmt.Println("Authentication failed:", apiErr.Message)
		return
	}
	fmt.Println("Could not reach the server:", err)
}

func printHelp(isAdmin bool) {
	fmt.Println("Available commands: help, login, register, logout, whoami, profile, refresh,")
	fmt.Println("  passwd, forgot <email>, ustalar, sorular <usta>, hizmetler,")
	fmt.Println("  requests, new-request, close <id>, replies <id>, reply <id> <text>, exit")
	if isAdmin {
		fmt.Println("Admin: type 'admin' for the management subcommands")
	}
}

func main() {
	options := config.Parse()

	if *showVer {
		fmt.Printf("UstaHub Client\nVersion: %s\nBuild Date: %s\n",
			cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Durable token storage; the only session state that survives runs.
	store, err := storage.NewTokenStore(options.TokenFile)
	if err != nil {
		zapLogger.Fatal("cannot init token store", zap.Error(err))
	}

	// API client, optionally trusting a private CA.
	var client *api.Client
	if options.CACert != "" {
		httpc, err := api.NewHTTPClientWithCA(options.CACert)
		if err != nil {
			zapLogger.Fatal("cannot load CA cert", zap.Error(err))
		}
		client = api.NewWithHTTPClient(options.ServerURL, store, zapLogger, httpc)
	} else {
		client = api.New(options.ServerURL, store, zapLogger)
	}

	mgr := session.NewManager(client, store, zapLogger)
	client.OnSessionExpired(func() {
		mgr.Invalidate()
		fmt.Println("\nSession expired, please log in again.")
	})

	ctx := context.Background()
	if err := mgr.Initialize(ctx); err != nil {
		zapLogger.Warn("failed to restore session", zap.Error(err))
	}
	if mgr.Authenticated() {
		fmt.Println("Restored session for", mgr.Claims().Subject)
	}

	repl(ctx, client, mgr)
}
