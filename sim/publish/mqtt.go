// Package publish sends meter samples and run reports to an MQTT broker and
// receives appliance commands from it.
package publish

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// Publisher sends a payload on a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Subscriber delivers the payloads received on a topic to handler.
type Subscriber interface {
	Subscribe(topic string, handler func(payload []byte)) error
}

// MQTTConfig configures the broker connection.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
	// Timeout bounds every connect, publish and subscribe.
	Timeout time.Duration
}

// MQTTClient implements Publisher and Subscriber over paho.
type MQTTClient struct {
	client mqtt.Client
	config MQTTConfig
}

// NewMQTTClient creates a client for config. Connect must be called before use.
func NewMQTTClient(config MQTTConfig) *MQTTClient {
	if config.ClientID == "" {
		config.ClientID = "hemsim"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logrus.Errorf("MQTT connection lost: %v", err)
	})
	return &MQTTClient{client: mqtt.NewClient(opts), config: config}
}

// Connect connects to the broker.
func (c *MQTTClient) Connect() error {
	logrus.Infof("Connecting to MQTT broker %s...", c.config.Broker)
	if err := c.wait(c.client.Connect(), "connecting to MQTT broker"); err != nil {
		return err
	}
	logrus.Info("Connected to MQTT broker")
	return nil
}

// Disconnect closes the connection, waiting briefly for in-flight messages.
func (c *MQTTClient) Disconnect() {
	c.client.Disconnect(250)
}

func (c *MQTTClient) Publish(topic string, payload []byte) error {
	return c.wait(c.client.Publish(topic, c.config.QoS, false, payload), "publishing to "+topic)
}

func (c *MQTTClient) Subscribe(topic string, handler func(payload []byte)) error {
	token := c.client.Subscribe(topic, c.config.QoS, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Payload())
	})
	return c.wait(token, "subscribing to "+topic)
}

func (c *MQTTClient) wait(token mqtt.Token, what string) error {
	if !token.WaitTimeout(c.config.Timeout) {
		return fmt.Errorf("%s: timed out after %s", what, c.config.Timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
