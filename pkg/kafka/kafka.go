package kafka

import (
	"github.com/IBM/sarama"
)

type Config struct {
	Addrs   []string `envconfig:"KAFKA_ADDRS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"reservation-events"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"false"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
