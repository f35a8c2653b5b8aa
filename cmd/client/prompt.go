package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ykaradag/ustahub/internal/client/api"
)

// promptLine reads one trimmed line of input under the given label.
func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func promptLogin(scanner *bufio.Scanner) api.LoginRequest {
	return api.LoginRequest{
		Identifier: promptLine(scanner, "Username or email: "),
		Secret:     promptLine(scanner, "Password: "),
	}
}

func promptRegistration(scanner *bufio.Scanner) api.RegisterRequest {
	return api.RegisterRequest{
		FullName: promptLine(scanner, "Full name: "),
		Username: promptLine(scanner, "Username: "),
		Email:    promptLine(scanner, "Email: "),
		Phone:    promptLine(scanner, "Phone (optional): "),
		Address:  promptLine(scanner, "Address (optional): "),
		Secret:   promptLine(scanner, "Password: "),
	}
}

func promptChangePassword(scanner *bufio.Scanner) api.ChangePasswordRequest {
	return api.ChangePasswordRequest{
		CurrentPassword: promptLine(scanner, "Current password: "),
		NewPassword:     promptLine(scanner, "New password: "),
	}
}

// promptNewRequest collects the fields of a service request. Intake
// answers are entered as key=value pairs until an empty line.
func promptNewRequest(scanner *bufio.Scanner) api.CreateRequestRequest {
	req := api.CreateRequestRequest{
		Title:    promptLine(scanner, "Title: "),
		Category: promptLine(scanner, "Trade category: "),
		Address:  promptLine(scanner, "Address: "),
		Details:  make(map[string]string),
	}
	fmt.Println("Enter details as question=answer, empty line to finish:")
	for {
		line := promptLine(scanner, "> ")
		if line == "" {
			break
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			fmt.Println("Expected question=answer")
			continue
		}
		req.Details[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return req
}
