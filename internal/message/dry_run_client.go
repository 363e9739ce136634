package message

import (
	"context"
	"fmt"
	"strings"
)

// dryRunClient writes messages to stdout instead of delivering them. It is
// meant for local development and tests where no messenger is configured.
type dryRunClient struct{}

func (c *dryRunClient) SendMessage(_ context.Context, message Message) error {
	recipient := message.ToEmail
	if recipient == "" {
		recipient = message.ToPhoneNumber
	}

	divider := strings.Repeat("-", 79)
	fmt.Println(divider)
	fmt.Println("Recipient:", recipient)
	fmt.Println("Subject:", message.Title)
	fmt.Println("Content:", message.Body)
	fmt.Println(divider)

	return nil
}

func (c *dryRunClient) MessengerType() MessengerType {
	return MessengerTypeDryRun
}

func NewDryRunClient() (MessengerClient, error) {
	return &dryRunClient{}, nil
}
