package lifecycle

import (
	"time"

	"github.com/soulkit/companion/internal/model"
)

// PermissionStatus is the collaborator-facing view of one grant.
type PermissionStatus struct {
	Granted         bool       `json:"granted"`
	ExplicitConsent bool       `json:"explicit_consent"`
	GrantedAt       *time.Time `json:"granted_at,omitempty"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

// Status is a snapshot of the lifecycle state for presentation
// collaborators.
type Status struct {
	Stage                Stage                                      `json:"stage"`
	BirthTime            time.Time                                  `json:"birth_time"`
	LastActive           time.Time                                  `json:"last_active"`
	RuntimeSeconds       int64                                      `json:"runtime_seconds"`
	DaysActive           int                                        `json:"days_active"`
	Interactions         int                                        `json:"interactions"`
	FullAIMode           bool                                       `json:"full_ai_mode"`
	FullAIModeAt         *time.Time                                 `json:"full_ai_mode_activated_at,omitempty"`
	BackgroundMonitoring bool                                       `json:"background_monitoring"`
	Charging             bool                                       `json:"is_charging"`
	BatteryPercent       float64                                    `json:"battery_percent"`
	Permissions          map[model.PermissionType]PermissionStatus  `json:"permissions"`
	Milestones           map[string]time.Time                       `json:"milestones"`
}

// Status returns the full lifecycle snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Stage:                c.stage,
		BirthTime:            c.birthTime,
		LastActive:           c.lastActive,
		RuntimeSeconds:       int64(c.now().Sub(c.birthTime).Seconds()),
		DaysActive:           c.daysActive(),
		Interactions:         c.interactions,
		FullAIMode:           c.fullAIMode,
		FullAIModeAt:         c.fullAIModeAt,
		BackgroundMonitoring: c.backgroundMonitoring,
		Charging:             c.charging,
		BatteryPercent:       c.batteryPercent,
		Permissions:          make(map[model.PermissionType]PermissionStatus, len(c.permissions)),
		Milestones:           make(map[string]time.Time, len(c.milestones)),
	}
	for p, grant := range c.permissions {
		st.Permissions[p] = PermissionStatus{
			Granted:         grant.Granted,
			ExplicitConsent: grant.ExplicitConsent,
			GrantedAt:       grant.GrantedAt,
			RevokedAt:       grant.RevokedAt,
		}
	}
	for name, ts := range c.milestones {
		st.Milestones[name] = ts
	}
	return st
}
