// Package notify publishes refresh pings over MQTT after a screen's
// content changes. The ping carries no content; players keep polling the
// materialized view and use the ping only to poll sooner.
package notify

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// Publisher sends one ping per updated screen. A nil *Publisher is a valid
// no-op notifier for deployments without a broker.
type Publisher struct {
	client mqtt.Client
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("mqtt connection lost")
}

// Connect dials the broker and returns a ready publisher.
func Connect(brokerURL, clientID string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.OnConnectionLost = connectLostHandler
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", brokerURL).Msg("connected to mqtt broker")
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}
	return &Publisher{client: client}, nil
}

// ScreenRefreshed publishes a ping on screens/<id>/refresh. Delivery is
// best-effort; a missed ping only delays the screen until its next poll.
func (p *Publisher) ScreenRefreshed(screenID int) {
	if p == nil {
		return
	}
	topic := fmt.Sprintf("screens/%d/refresh", screenID)
	token := p.client.Publish(topic, 1, false, []byte("refresh"))
	token.Wait()
	if err := token.Error(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("failed to publish refresh ping")
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.client.Disconnect(250)
}
