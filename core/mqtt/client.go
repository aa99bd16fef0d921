// Package mqtt defines the broker publisher used to fan forecast events out
// to downstream consumers.
package mqtt

// Publisher sends payloads to an MQTT broker.
type Publisher interface {
	// Publish sends payload to topic, retrying according to the client
	// configuration.
	Publish(topic string, payload []byte) error
	// Disconnect gracefully closes the connection.
	Disconnect()
}
