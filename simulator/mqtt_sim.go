package main

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// pahoPublisher is the slice of the Paho API the publish helpers need; tests
// swap in a recorder.
type pahoPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

func newMQTTClient(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID(clientID)
	opts.AutoReconnect = true
	opts.ConnectTimeout = 10 * time.Second
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return cli, nil
}
