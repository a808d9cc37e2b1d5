package kafka

import (
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// EnsureTopic creates the event-launched topic if it doesn't already exist.
// The wizard service only publishes to one topic, so a single-topic helper
// is all we need at startup.
func EnsureTopic(brokers []string, topic string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			log.Printf("Topic %s already exists", topic)
			return nil
		}
		return err
	}
	log.Printf("Created topic: %s", topic)

	// Give the cluster a moment before the producer starts writing
	time.Sleep(1 * time.Second)
	return nil
}
