package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ykaradag/ustahub/internal/client/api"
	"github.com/ykaradag/ustahub/internal/models"
)

const adminPageSize = 20

// adminCommand dispatches the admin subcommands. The backend enforces
// the authority again on every call; the local check only shapes the UI.
func adminCommand(ctx context.Context, client *api.Client, scanner *bufio.Scanner, args []string) {
	if len(args) == 0 {
		printAdminHelp()
		return
	}
	page := 0
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			page = n
		}
	}

	switch args[0] {
	case "requests":
		result, err := client.AdminRequests(ctx, page, adminPageSize)
		if err != nil {
			fmt.Println("Failed to list requests:", err)
			return
		}
		for _, r := range result.Content {
			fmt.Printf("%s  [%s]  %s by %s\n", r.ID, r.Status, r.Title, r.User.Username)
		}
		fmt.Printf("Page %d of %d (%d total)\n", result.Number+1, result.TotalPages, result.TotalElements)
	case "close":
		if len(args) < 2 {
			fmt.Println("Usage: admin close <request-id>")
			return
		}
		if err := client.AdminCloseRequest(ctx, args[1]); err != nil {
			fmt.Println("Failed to close request:", err)
			return
		}
		fmt.Println("Request closed")
	case "reply":
		if len(args) < 3 {
			fmt.Println("Usage: admin reply <request-id> <text>")
			return
		}
		if _, err := client.AdminPostReply(ctx, args[1], strings.Join(args[2:], " ")); err != nil {
			fmt.Println("Failed to post reply:", err)
			return
		}
		fmt.Println("Reply sent")
	case "users":
		result, err := client.AdminUsers(ctx, page, adminPageSize)
		if err != nil {
			fmt.Println("Failed to list users:", err)
			return
		}
		for _, u := range result.Content {
			fmt.Printf("%s  %s <%s>\n", u.ID, u.Username, u.Email)
		}
	case "maillogs":
		result, err := client.AdminMailLogs(ctx, page, adminPageSize)
		if err != nil {
			fmt.Println("Failed to list mail logs:", err)
			return
		}
		for _, m := range result.Content {
			fmt.Printf("[%s] %s -> %s: %s\n", m.SentDate, m.RequestTitle, m.Email, m.Subject)
		}
	case "offer":
		if len(args) < 4 {
			fmt.Println("Usage: admin offer <request-id> <price> <details>")
			return
		}
		price, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Println("Invalid price:", args[2])
			return
		}
		offer, err := client.AdminCreateOffer(ctx, args[1], api.OfferRequest{
			Price:   price,
			Details: strings.Join(args[3:], " "),
		})
		if err != nil {
			fmt.Println("Failed to create offer:", err)
			return
		}
		fmt.Println("Offer created:", offer.ID)
	case "update-offer":
		if len(args) < 3 {
			fmt.Println("Usage: admin update-offer <offer-id> <price>")
			return
		}
		price, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			fmt.Println("Invalid price:", args[2])
			return
		}
		if _, err := client.AdminUpdateOffer(ctx, args[1], price); err != nil {
			fmt.Println("Failed to update offer:", err)
			return
		}
		fmt.Println("Offer updated")
	case "ustalar":
		result, err := client.AdminUstalar(ctx, page, adminPageSize)
		if err != nil {
			fmt.Println("Failed to list trades:", err)
			return
		}
		for _, u := range result.Content {
			fmt.Printf("%s  %s\n", u.ID, u.Name)
		}
	case "new-usta":
		usta, err := client.AdminCreateUsta(ctx, promptUsta(scanner))
		if err != nil {
			fmt.Println("Failed to create trade:", err)
			return
		}
		fmt.Println("Trade created:", usta.ID)
	case "edit-usta":
		if len(args) < 2 {
			fmt.Println("Usage: admin edit-usta <usta-id>")
			return
		}
		if _, err := client.AdminUpdateUsta(ctx, args[1], promptUsta(scanner)); err != nil {
			fmt.Println("Failed to update trade:", err)
			return
		}
		fmt.Println("Trade updated")
	case "activate-usta", "deactivate-usta":
		if len(args) < 2 {
			fmt.Printf("Usage: admin %s <usta-id>\n", args[0])
			return
		}
		var err error
		if args[0] == "activate-usta" {
			err = client.AdminActivateUsta(ctx, args[1])
		} else {
			err = client.AdminDeactivateUsta(ctx, args[1])
		}
		if err != nil {
			fmt.Println("Failed to change trade state:", err)
			return
		}
		fmt.Println("Trade state changed")
	case "sorular":
		result, err := client.AdminSorular(ctx, page, adminPageSize)
		if err != nil {
			fmt.Println("Failed to list questions:", err)
			return
		}
		for _, s := range result.Content {
			fmt.Printf("%s  [%s] %d. %s (%s)\n", s.ID, s.Usta.Name, s.Order, s.Question, s.Type)
		}
	case "new-soru":
		soru, err := client.AdminCreateSoru(ctx, promptSoru(scanner))
		if err != nil {
			fmt.Println("Failed to create question:", err)
			return
		}
		fmt.Println("Question created:", soru.ID)
	case "del-soru":
		if len(args) < 2 {
			fmt.Println("Usage: admin del-soru <soru-id>")
			return
		}
		if err := client.AdminDeleteSoru(ctx, args[1]); err != nil {
			fmt.Println("Failed to delete question:", err)
			return
		}
		fmt.Println("Question deleted")
	case "hizmetler":
		hizmetler, err := client.AdminHizmetler(ctx)
		if err != nil {
			fmt.Println("Failed to list services:", err)
			return
		}
		for _, h := range hizmetler {
			fmt.Printf("%s  %s\n", h.ID, h.Title)
		}
	case "new-hizmet":
		created, err := client.AdminCreateHizmet(ctx, promptHizmet(scanner))
		if err != nil {
			fmt.Println("Failed to create service:", err)
			return
		}
		fmt.Println("Service created:", created.ID)
	case "edit-hizmet":
		if len(args) < 2 {
			fmt.Println("Usage: admin edit-hizmet <hizmet-id>")
			return
		}
		current, err := client.AdminHizmet(ctx, args[1])
		if err != nil {
			fmt.Println("Failed to fetch service:", err)
			return
		}
		fmt.Printf("Editing %q (leave a field empty to keep it)\n", current.Title)
		updated := promptHizmet(scanner)
		if updated.Title == "" {
			updated.Title = current.Title
		}
		if updated.Description == "" {
			updated.Description = current.Description
		}
		if updated.VideoURL == "" {
			updated.VideoURL = current.VideoURL
		}
		if _, err := client.AdminUpdateHizmet(ctx, args[1], updated); err != nil {
			fmt.Println("Failed to update service:", err)
			return
		}
		fmt.Println("Service updated")
	case "del-hizmet":
		if len(args) < 2 {
			fmt.Println("Usage: admin del-hizmet <hizmet-id>")
			return
		}
		if err := client.AdminDeleteHizmet(ctx, args[1]); err != nil {
			fmt.Println("Failed to delete service:", err)
			return
		}
		fmt.Println("Service deleted")
	case "portfolio":
		if len(args) < 2 {
			fmt.Println("Usage: admin portfolio <usta-id>")
			return
		}
		items, err := client.AdminPortfolio(ctx, args[1])
		if err != nil {
			fmt.Println("Failed to list portfolio:", err)
			return
		}
		for _, item := range items {
			fmt.Printf("%s  [%s] %s (active: %v)\n", item.ID, item.MediaType, item.Title, item.IsActive)
		}
	case "add-portfolio":
		if len(args) < 2 {
			fmt.Println("Usage: admin add-portfolio <usta-id>")
			return
		}
		item, err := client.AdminCreatePortfolioItem(ctx, args[1], promptPortfolioItem(scanner))
		if err != nil {
			fmt.Println("Failed to add portfolio item:", err)
			return
		}
		fmt.Println("Portfolio item added:", item.ID)
	case "del-portfolio":
		if len(args) < 2 {
			fmt.Println("Usage: admin del-portfolio <content-id>")
			return
		}
		if err := client.AdminDeletePortfolioItem(ctx, args[1]); err != nil {
			fmt.Println("Failed to delete portfolio item:", err)
			return
		}
		fmt.Println("Portfolio item deleted")
	default:
		fmt.Println("Unknown admin command:", args[0])
		printAdminHelp()
	}
}

func printAdminHelp() {
	fmt.Println("Admin commands:")
	fmt.Println("  admin requests|users|maillogs|ustalar|sorular [page]")
	fmt.Println("  admin close <request-id>, admin reply <request-id> <text>")
	fmt.Println("  admin offer <request-id> <price> <details>, admin update-offer <offer-id> <price>")
	fmt.Println("  admin new-usta, edit-usta <id>, activate-usta <id>, deactivate-usta <id>")
	fmt.Println("  admin new-soru, del-soru <id>")
	fmt.Println("  admin hizmetler, new-hizmet, edit-hizmet <id>, del-hizmet <id>")
	fmt.Println("  admin portfolio <usta-id>, add-portfolio <usta-id>, del-portfolio <content-id>")
}

func promptUsta(scanner *bufio.Scanner) api.UstaRequest {
	return api.UstaRequest{
		Name:            promptLine(scanner, "Trade name: "),
		ProfileImageURL: promptLine(scanner, "Image URL (optional): "),
	}
}

func promptSoru(scanner *bufio.Scanner) api.SoruRequest {
	req := api.SoruRequest{
		UstaID:   promptLine(scanner, "Trade ID: "),
		Question: promptLine(scanner, "Question: "),
		Type:     promptLine(scanner, "Type (text/select): "),
	}
	if options := promptLine(scanner, "Options (comma-separated, optional): "); options != "" {
		for _, opt := range strings.Split(options, ",") {
			req.Options = append(req.Options, strings.TrimSpace(opt))
		}
	}
	if order, err := strconv.Atoi(promptLine(scanner, "Order: ")); err == nil {
		req.Order = order
	}
	return req
}

func promptHizmet(scanner *bufio.Scanner) models.Hizmet {
	return models.Hizmet{
		Title:       promptLine(scanner, "Title: "),
		Description: promptLine(scanner, "Description: "),
		VideoURL:    promptLine(scanner, "Video URL: "),
	}
}

func promptPortfolioItem(scanner *bufio.Scanner) api.PortfolioItemRequest {
	req := api.PortfolioItemRequest{
		Title:       promptLine(scanner, "Title: "),
		Description: promptLine(scanner, "Description: "),
		MediaURL:    promptLine(scanner, "Media URL: "),
		MediaType:   models.MediaImage,
	}
	if strings.EqualFold(promptLine(scanner, "Media type (image/video): "), "video") {
		req.MediaType = models.MediaVideo
	}
	return req
}
