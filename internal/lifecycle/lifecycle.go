// Package lifecycle tracks the companion's maturity stage, its
// permission grants, and the milestone ledger.
package lifecycle

import (
	"sort"
	"sync"
	"time"

	"github.com/soulkit/companion/internal/model"
)

// Stage is a lifecycle state.
type Stage string

// Lifecycle stages. Active stages progress forward only; DORMANT is
// orthogonal and END_OF_LIFE is terminal.
const (
	StageBirth          Stage = "birth"
	StageInitialization Stage = "init"
	StageEarlyLearning  Stage = "early_learning"
	StageGrowth         Stage = "growth"
	StageMature         Stage = "mature"
	StageDormant        Stage = "dormant"
	StageEndOfLife      Stage = "end_of_life"
)

// Stage progression thresholds.
const (
	earlyLearningInteractions = 5
	growthInteractions        = 50
	growthDays                = 1
	matureInteractions        = 500
	matureDays                = 7
)

// fullAIModeRequired is the permission quad that must be simultaneously
// granted with explicit consent before Full AI Mode is available.
var fullAIModeRequired = []model.PermissionType{
	model.PermMicrophone,
	model.PermCamera,
	model.PermSensors,
	model.PermFullAIMode,
}

// Controller is the lifecycle state machine. All permissions start
// denied; milestones are write-once.
type Controller struct {
	mu  sync.Mutex
	now func() time.Time

	stage        Stage
	birthTime    time.Time
	lastActive   time.Time
	interactions int

	permissions map[model.PermissionType]*model.PermissionGrant
	milestones  map[string]time.Time

	fullAIMode           bool
	fullAIModeAt         *time.Time
	backgroundMonitoring bool

	charging       bool
	batteryPercent float64
}

// New creates a controller in the BIRTH stage with every permission denied.
func New() *Controller {
	return newController(time.Now)
}

func newController(now func() time.Time) *Controller {
	c := &Controller{
		now:            now,
		stage:          StageBirth,
		birthTime:      now(),
		lastActive:     now(),
		permissions:    make(map[model.PermissionType]*model.PermissionGrant, len(model.AllPermissions)),
		milestones:     map[string]time.Time{},
		batteryPercent: 100,
	}
	for _, p := range model.AllPermissions {
		c.permissions[p] = &model.PermissionGrant{Permission: p}
	}
	return c
}

// OnBirth marks the companion installed: BIRTH -> INITIALIZATION.
func (c *Controller) OnBirth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.birthTime = c.now()
	c.lastActive = c.birthTime
	c.stage = StageInitialization
	c.recordMilestone("birth")
}

// OnInteraction counts a user interaction and advances the stage when a
// threshold is crossed. Each stage transition records its milestone once.
func (c *Controller) OnInteraction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.lastActive = c.now()
	c.interactions++
	c.checkProgression()
}

func (c *Controller) checkProgression() {
	days := c.daysActive()

	if c.stage == StageInitialization && c.interactions > earlyLearningInteractions {
		c.stage = StageEarlyLearning
		c.recordMilestone("early_learning_started")
	}
	if c.stage == StageEarlyLearning && (c.interactions > growthInteractions || days >= growthDays) {
		c.stage = StageGrowth
		c.recordMilestone("growth_stage_reached")
	}
	if c.stage == StageGrowth && (c.interactions > matureInteractions || days >= matureDays) {
		c.stage = StageMature
		c.recordMilestone("maturity_reached")
	}
}

func (c *Controller) daysActive() int {
	return int(c.now().Sub(c.birthTime).Hours() / 24)
}

// OnPhoneSleep moves to DORMANT unless Full AI Mode is enabled and
// background monitoring is active, in which case monitoring continues
// and the stage is unchanged.
func (c *Controller) OnPhoneSleep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	if c.fullAIMode && c.backgroundMonitoring {
		return
	}
	c.stage = StageDormant
}

// OnPhoneActive wakes a dormant companion back into GROWTH.
func (c *Controller) OnPhoneActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.lastActive = c.now()
	if c.stage == StageDormant {
		c.stage = StageGrowth
	}
}

// OnUninstall forces the terminal END_OF_LIFE state. No further
// transitions are accepted afterwards.
func (c *Controller) OnUninstall() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.stage = StageEndOfLife
	c.recordMilestone("end_of_life")
}

// OnCharging records the charging state.
func (c *Controller) OnCharging(charging bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.charging = charging
}

// OnBatteryUpdate records the battery level.
func (c *Controller) OnBatteryUpdate(percent float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return
	}
	c.batteryPercent = percent
}

// RequestPermission grants a permission if and only if the user
// approved; a grant always carries explicit consent. Granting the
// FULL_AI_MODE permission checks whether the whole required quad is now
// granted and records the availability milestone. Returns whether the
// grant was made.
func (c *Controller) RequestPermission(p model.PermissionType, userApproved bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return false
	}

	grant, ok := c.permissions[p]
	if !ok || !userApproved {
		return false
	}

	now := c.now()
	grant.Granted = true
	grant.ExplicitConsent = true
	grant.GrantedAt = &now

	if p == model.PermFullAIMode && c.fullAIModeAvailable() {
		c.recordMilestone("full_ai_mode_available")
	}
	return true
}

// RevokePermission clears a grant. Revoking FULL_AI_MODE also disables
// Full AI Mode immediately.
func (c *Controller) RevokePermission(p model.PermissionType) {
	c.mu.Lock()
	defer c.mu.Unlock()

	grant, ok := c.permissions[p]
	if !ok {
		return
	}
	now := c.now()
	grant.Granted = false
	grant.RevokedAt = &now

	if p == model.PermFullAIMode {
		c.fullAIMode = false
	}
}

// EnableFullAIMode turns on Full AI Mode. It fails unless the
// FULL_AI_MODE permission was previously granted with explicit consent.
func (c *Controller) EnableFullAIMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == StageEndOfLife {
		return false
	}

	grant := c.permissions[model.PermFullAIMode]
	if !grant.Granted || !grant.ExplicitConsent {
		return false
	}

	c.fullAIMode = true
	now := c.now()
	c.fullAIModeAt = &now
	c.recordMilestone("full_ai_mode_enabled")
	return true
}

// DisableFullAIMode turns off Full AI Mode.
func (c *Controller) DisableFullAIMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullAIMode = false
}

// FullAIModeEnabled reports whether Full AI Mode is on.
func (c *Controller) FullAIModeEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullAIMode
}

func (c *Controller) fullAIModeAvailable() bool {
	for _, p := range fullAIModeRequired {
		if g := c.permissions[p]; !g.Granted || !g.ExplicitConsent {
			return false
		}
	}
	return true
}

// SetBackgroundMonitoring toggles background monitoring. It only takes
// effect while operating in background mode is permitted.
func (c *Controller) SetBackgroundMonitoring(active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backgroundMonitoring = active
}

// BackgroundModeAvailable reports whether the companion may keep
// running while the phone sleeps: Full AI Mode enabled plus the
// background_monitoring grant.
func (c *Controller) BackgroundModeAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullAIMode && c.permissions[model.PermBackgroundMonitoring].Granted
}

// PermissionGranted reports whether a permission is currently granted
// with explicit consent.
func (c *Controller) PermissionGranted(p model.PermissionType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	grant, ok := c.permissions[p]
	return ok && grant.Granted && grant.ExplicitConsent
}

func (c *Controller) recordMilestone(name string) {
	if _, ok := c.milestones[name]; ok {
		return
	}
	c.milestones[name] = c.now()
}

// Stage returns the current lifecycle stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// InteractionCount returns the number of interactions observed.
func (c *Controller) InteractionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interactions
}

// Milestones returns a copy of the milestone ledger.
func (c *Controller) Milestones() []model.Milestone {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Milestone, 0, len(c.milestones))
	for name, ts := range c.milestones {
		out = append(out, model.Milestone{Name: name, Timestamp: ts})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Name < out[j].Name
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
