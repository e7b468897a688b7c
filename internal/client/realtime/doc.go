// Package realtime carries row change events between clients sharing one
// row store over Redis Pub/Sub.
//
// Events are published per project on the channel "clipboard:<project>".
// RedisSubscriber delivers them to the sync engine, which filters by folder.
// PublishingStore decorates a rows.Repository so that every successful write
// is announced to other subscribers; a client receiving its own event merges
// it idempotently.
package realtime
