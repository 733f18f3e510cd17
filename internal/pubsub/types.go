package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// Topic names for the messages this service publishes.
const (
	TopicMatchFinalized = "match-finalized"
	TopicLogRecovered   = "log-recovered"
)
