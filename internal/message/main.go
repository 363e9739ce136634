package message

import (
	"fmt"
	"slices"
	"strings"
)

// MessengerType identifies the delivery backend for a messenger client.
type MessengerType string

// ATTENTION: when adding a new type, make sure to update the MessengerType methods!
const (
	// MessengerTypeTwilioSMS sends SMS messages through Twilio.
	MessengerTypeTwilioSMS MessengerType = "TWILIO_SMS"
	// MessengerTypeTwilioEmail sends emails through Twilio SendGrid.
	MessengerTypeTwilioEmail MessengerType = "TWILIO_EMAIL"
	// MessengerTypeAWSEmail sends emails through AWS SES.
	MessengerTypeAWSEmail MessengerType = "AWS_EMAIL"
	// MessengerTypeDryRun prints messages to stdout instead of sending them.
	MessengerTypeDryRun MessengerType = "DRY_RUN"
)

func (mt MessengerType) All() []MessengerType {
	return []MessengerType{MessengerTypeTwilioSMS, MessengerTypeTwilioEmail, MessengerTypeAWSEmail, MessengerTypeDryRun}
}

// ParseMessengerType parses a case-insensitive messenger type name.
func ParseMessengerType(messengerTypeStr string) (MessengerType, error) {
	normalized := strings.ToUpper(messengerTypeStr)

	messengerType := MessengerType(normalized)
	if slices.Contains(messengerType.All(), messengerType) {
		return messengerType, nil
	}

	return "", fmt.Errorf("invalid message sender type %q", normalized)
}

func (mt MessengerType) ValidSMSTypes() []MessengerType {
	return []MessengerType{MessengerTypeDryRun, MessengerTypeTwilioSMS}
}

func (mt MessengerType) ValidEmailTypes() []MessengerType {
	return []MessengerType{MessengerTypeDryRun, MessengerTypeTwilioEmail, MessengerTypeAWSEmail}
}

func (mt MessengerType) IsSMS() bool {
	return slices.Contains(mt.ValidSMSTypes(), mt)
}

func (mt MessengerType) IsEmail() bool {
	return slices.Contains(mt.ValidEmailTypes(), mt)
}

// MessengerOptions carries the credentials for every supported backend. Only
// the fields for the selected MessengerType need to be populated.
type MessengerOptions struct {
	MessengerType MessengerType
	Environment   string

	// Twilio SMS
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioServiceSID string
	// Twilio SendGrid email
	TwilioSendGridAPIKey        string
	TwilioSendGridSenderAddress string

	// AWS
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	// AWS SES email
	AWSSESSenderID string
}

// GetClient builds the MessengerClient for the configured messenger type.
func GetClient(opts MessengerOptions) (MessengerClient, error) {
	switch opts.MessengerType {
	case MessengerTypeTwilioSMS:
		return NewTwilioClient(opts.TwilioAccountSID, opts.TwilioAuthToken, opts.TwilioServiceSID)

	case MessengerTypeTwilioEmail:
		return NewTwilioSendGridClient(opts.TwilioSendGridAPIKey, opts.TwilioSendGridSenderAddress)

	case MessengerTypeAWSEmail:
		return NewAWSSESClient(opts.AWSAccessKeyID, opts.AWSSecretAccessKey, opts.AWSRegion, opts.AWSSESSenderID)

	case MessengerTypeDryRun:
		return NewDryRunClient()

	default:
		return nil, fmt.Errorf("unknown message sender type: %q", opts.MessengerType)
	}
}
