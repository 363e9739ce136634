package message

import (
	"context"
	"fmt"

	"github.com/meridianpay/wallet-platform-backend/internal/logging"
)

type MessageChannel string

const (
	MessageChannelEmail MessageChannel = "EMAIL"
	MessageChannelSMS   MessageChannel = "SMS"
)

type MessageDispatcherInterface interface {
	RegisterClient(ctx context.Context, channel MessageChannel, client MessengerClient)
	SendMessage(ctx context.Context, message Message, channelPriority []MessageChannel) (MessengerType, error)
	GetClient(channel MessageChannel) (MessengerClient, error)
}

type MessageDispatcher struct {
	clients map[MessageChannel]MessengerClient
}

func NewMessageDispatcher() *MessageDispatcher {
	return &MessageDispatcher{
		clients: make(map[MessageChannel]MessengerClient),
	}
}

func (d *MessageDispatcher) RegisterClient(ctx context.Context, channel MessageChannel, client MessengerClient) {
	logging.L(ctx).Infof("registering messenger client %s for channel %s", client.MessengerType(), channel)
	d.clients[channel] = client
}

// SendMessage tries the channels in priority order, falling through to the
// next one when a send fails.
func (d *MessageDispatcher) SendMessage(ctx context.Context, message Message, channelPriority []MessageChannel) (MessengerType, error) {
	if len(channelPriority) == 0 {
		return "", fmt.Errorf("channel priority cannot be empty")
	}

	// default to the highest priority channel messenger type.
	var messengerType MessengerType
	if client, ok := d.clients[channelPriority[0]]; ok {
		messengerType = client.MessengerType()
	}

	supportedChannels := make(map[MessageChannel]bool)
	for _, ch := range message.SupportedChannels() {
		supportedChannels[ch] = true
	}

	if len(supportedChannels) == 0 {
		return messengerType, fmt.Errorf("no valid channel found for message %s", message)
	}

	for _, channel := range channelPriority {
		if !supportedChannels[channel] {
			logging.L(ctx).Debugf("skipping channel %q since it's not supported for the message %s", channel, message)
			continue
		}

		client, ok := d.clients[channel]
		if !ok {
			logging.L(ctx).Warnf("no client registered for channel %q", channel)
			continue
		}
		messengerType = client.MessengerType()

		err := client.SendMessage(ctx, message)
		if err == nil {
			return messengerType, nil
		}

		logging.L(ctx).Errorf("error sending %s through messenger type %s: %v", channel, messengerType, err)
	}

	return messengerType, fmt.Errorf("unable to send message %s using any of the supported channels", message)
}

func (d *MessageDispatcher) GetClient(channel MessageChannel) (MessengerClient, error) {
	client, ok := d.clients[channel]
	if !ok {
		return nil, fmt.Errorf("no client registered for channel %q", channel)
	}

	return client, nil
}

var _ MessageDispatcherInterface = (*MessageDispatcher)(nil)
