// Package events publishes competition lifecycle events to RabbitMQ for
// downstream consumers. Publish failures are logged and never fail the
// request that produced them.
package events

import "time"

const (
	CompetitionCreated     = "competition.created"
	CompetitionUpdated     = "competition.updated"
	CompetitionDeleted     = "competition.deleted"
	CompetitionApproved    = "competition.approved"
	CompetitionRejected    = "competition.rejected"
	CompetitionFeatured    = "competition.featured"
	CompetitionUnfeatured  = "competition.unfeatured"
	CompetitionActivated   = "competition.activated"
	CompetitionDeactivated = "competition.deactivated"
)

type CompetitionEvent struct {
	Event         string    `json:"event"`
	CompetitionID string    `json:"competition_id"`
	Title         string    `json:"title"`
	OwnerID       string    `json:"owner_id"`
	ActorID       string    `json:"actor_id"`
	Reason        string    `json:"reason,omitempty"`
	At            time.Time `json:"at"`
}
