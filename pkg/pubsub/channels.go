package pubsub

import (
	"fmt"
	"strings"
)

// Channel naming conventions for identifier events.
const (
	// ChannelIDsIssued carries one event per issued batch, keyed by prefix.
	ChannelIDsIssued = "ids:kind:%s:issued"
)

// Event types.
const (
	EventIDsIssued = "ids_issued"
)

// IDsIssuedChannel returns the channel name for batches of kind prefix.
func IDsIssuedChannel(prefix string) string {
	return fmt.Sprintf(ChannelIDsIssued, prefix)
}

// IDsIssuedPayload is sent after a batch has been issued and recorded.
type IDsIssuedPayload struct {
	BatchID string   `json:"batch_id"`
	Prefix  string   `json:"prefix"`
	Source  string   `json:"source"`
	IDs     []string `json:"ids"`
}

// channelToTopicAndKey converts a Redis-style channel to a Kafka topic and
// message key.
//
//	"ids:kind:user:issued" → topic: "ids-issued", key: "user"
func channelToTopicAndKey(channel string) (topic, key string, err error) {
	// Expected format: {domain}:kind:{prefix}:{event}
	parts := strings.Split(channel, ":")
	if len(parts) != 4 || parts[1] != "kind" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid channel format: %s", channel)
	}
	return parts[0] + "-" + strings.ReplaceAll(parts[3], "_", "-"), parts[2], nil
}
