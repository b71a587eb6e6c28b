// Package realtime implements the room-based publish/subscribe layer used to
// stream live driver positions and role-scoped notifications to connected
// clients. Topics partition subscribers; the Hub fans events out to every
// connection currently subscribed to a topic.
package realtime

import (
	"strconv"
	"strings"

	"fleet/internal/domain/entity"
)

// Topic is a named broadcast channel. Topic names are derived only from
// stable numeric entity identifiers, never from session identifiers, so
// every connected session of the same actor shares delivery of the same
// events.
type Topic string

// TopicAdmin is the shared room for all connected admin sessions.
const TopicAdmin Topic = "admin"

// Topic family prefixes.
const (
	topicPrefixDelivery = "delivery:"
	topicPrefixCustomer = "customer:"
	topicPrefixDriver   = "driver:"
)

// DeliveryTopic returns the room for anyone tracking one delivery.
func DeliveryTopic(deliveryID int64) Topic {
	return Topic(topicPrefixDelivery + strconv.FormatInt(deliveryID, 10))
}

// CustomerTopic returns the room shared by all sessions of one customer.
func CustomerTopic(customerID int64) Topic {
	return Topic(topicPrefixCustomer + strconv.FormatInt(customerID, 10))
}

// DriverTopic returns the room shared by all sessions of one driver.
func DriverTopic(driverID int64) Topic {
	return Topic(topicPrefixDriver + strconv.FormatInt(driverID, 10))
}

// DeliveryID extracts the numeric ID from a delivery topic. The second
// return value is false for any other topic family.
func (t Topic) DeliveryID() (int64, bool) {
	raw, ok := strings.CutPrefix(string(t), topicPrefixDelivery)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// Actor identifies a connected principal for topic authorization. DriverID
// and CustomerID are nil when the actor has no such record.
type Actor struct {
	Role       string
	DriverID   *int64
	CustomerID *int64
}

// BaseTopics returns the topic set an actor joins on session start: its own
// role-scoped room. Delivery rooms are joined separately as views open.
func (a Actor) BaseTopics() []Topic {
	switch a.Role {
	case entity.RoleAdmin:
		return []Topic{TopicAdmin}
	case entity.RoleCustomer:
		if a.CustomerID == nil {
			return nil
		}

		return []Topic{CustomerTopic(*a.CustomerID)}
	case entity.RoleDriver:
		if a.DriverID == nil {
			return nil
		}

		return []Topic{DriverTopic(*a.DriverID)}
	default:
		return nil
	}
}
