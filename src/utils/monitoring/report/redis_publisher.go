package report

import (
	"go.uber.org/atomic"
)

type RedisPublisherErrors struct {
	// Failed attempts, retried
	Publish atomic.Uint64 `json:"publish"`

	// Messages given up on
	PersistentFailure atomic.Uint64 `json:"persistent"`

	Marshal atomic.Uint64 `json:"marshal"`
}

type RedisPublisherState struct {
	MessagesPublished              atomic.Uint64 `json:"messages_published"`
	BytesPublished                 atomic.Uint64 `json:"bytes_published"`
	LastSuccessfulMessageTimestamp atomic.Int64  `json:"last_successful_message_timestamp"`

	// Subscribers that received the last message
	LastReceivers atomic.Int64 `json:"last_receivers"`

	// Messages waiting for a free worker
	QueueSize atomic.Int64 `json:"queue_size"`
}

type RedisPublisherReport struct {
	State  RedisPublisherState  `json:"state"`
	Errors RedisPublisherErrors `json:"errors"`
}
