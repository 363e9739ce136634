package message

import (
	"fmt"
	"strings"

	"github.com/meridianpay/wallet-platform-backend/internal/utils"
)

type Message struct {
	ToPhoneNumber string
	ToEmail       string
	Body          string
	Title         string
}

// ValidateFor validates if the message object is valid for the given messengerType.
func (m *Message) ValidateFor(messengerType MessengerType) error {
	if messengerType.IsSMS() {
		if err := utils.ValidatePhoneNumber(m.ToPhoneNumber); err != nil {
			return fmt.Errorf("invalid message: %w", err)
		}
	}

	if messengerType.IsEmail() {
		if err := utils.ValidateEmail(m.ToEmail); err != nil {
			return fmt.Errorf("invalid message: %w", err)
		}

		if strings.Trim(m.Title, " ") == "" {
			return fmt.Errorf("title is empty")
		}
	}

	if strings.Trim(m.Body, " ") == "" {
		return fmt.Errorf("message is empty")
	}

	return nil
}

// SupportedChannels returns the channels the message carries enough data to
// be sent through.
func (m *Message) SupportedChannels() []MessageChannel {
	var channels []MessageChannel

	if utils.ValidateEmail(m.ToEmail) == nil && strings.Trim(m.Title, " ") != "" {
		channels = append(channels, MessageChannelEmail)
	}

	if utils.ValidatePhoneNumber(m.ToPhoneNumber) == nil {
		channels = append(channels, MessageChannelSMS)
	}

	return channels
}

func (m Message) String() string {
	return fmt.Sprintf("Message{ToPhoneNumber: %s, ToEmail: %s}", utils.TruncateString(m.ToPhoneNumber, 3), utils.TruncateString(m.ToEmail, 3))
}
