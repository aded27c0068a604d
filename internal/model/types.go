// Package model defines the companion core data types.
package model

import "time"

// EmotionalState is the companion's dominant emotion.
type EmotionalState string

// Emotional states the companion can express.
const (
	EmotionHappy      EmotionalState = "happy"
	EmotionCurious    EmotionalState = "curious"
	EmotionConcerned  EmotionalState = "concerned"
	EmotionExcited    EmotionalState = "excited"
	EmotionCalm       EmotionalState = "calm"
	EmotionFocused    EmotionalState = "focused"
	EmotionPlayful    EmotionalState = "playful"
	EmotionProtective EmotionalState = "protective"
)

// ValidEmotions are the allowed emotional states.
var ValidEmotions = map[EmotionalState]bool{
	EmotionHappy:      true,
	EmotionCurious:    true,
	EmotionConcerned:  true,
	EmotionExcited:    true,
	EmotionCalm:       true,
	EmotionFocused:    true,
	EmotionPlayful:    true,
	EmotionProtective: true,
}

// MemoryEntry is a single long-term memory. Entries are immutable after
// creation except for related-id links.
type MemoryEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Content    string    `json:"content"`
	Importance float64   `json:"importance_score"`
	Tags       []string  `json:"tags,omitempty"`
	RelatedIDs []int64   `json:"related_memories,omitempty"`
}

// PersonalityTrait is a weighted personality dimension.
type PersonalityTrait struct {
	Name       string   `json:"name"`
	Value      float64  `json:"value"`
	Influences []string `json:"influences,omitempty"`
}

// EmotionalProfile tracks the bond between companion and user.
type EmotionalProfile struct {
	Trust             float64        `json:"trust_level"`
	Affinity          float64        `json:"affinity"`
	BondStrength      float64        `json:"emotional_bond_strength"`
	DominantEmotion   EmotionalState `json:"dominant_emotion"`
	SharedExperiences int            `json:"shared_experiences"`
}

// PermissionType identifies a user-grantable capability.
type PermissionType string

// Capabilities the user can grant.
const (
	PermMicrophone           PermissionType = "microphone"
	PermCamera               PermissionType = "camera"
	PermSensors              PermissionType = "sensors"
	PermLocation             PermissionType = "location"
	PermFullAIMode           PermissionType = "full_ai_mode"
	PermBackgroundMonitoring PermissionType = "background_monitoring"
	PermEmergencyDetection   PermissionType = "emergency_detection"
	PermCloudSync            PermissionType = "cloud_sync"
	PermAppScanning          PermissionType = "app_scanning"
	PermInternetSearch       PermissionType = "internet_search"
)

// AllPermissions lists every permission type in a stable order.
var AllPermissions = []PermissionType{
	PermMicrophone,
	PermCamera,
	PermSensors,
	PermLocation,
	PermFullAIMode,
	PermBackgroundMonitoring,
	PermEmergencyDetection,
	PermCloudSync,
	PermAppScanning,
	PermInternetSearch,
}

// PermissionGrant records the consent state of one permission.
// Granted is only ever set together with ExplicitConsent.
type PermissionGrant struct {
	Permission      PermissionType `json:"permission"`
	Granted         bool           `json:"granted"`
	ExplicitConsent bool           `json:"explicit_consent"`
	GrantedAt       *time.Time     `json:"granted_at,omitempty"`
	RevokedAt       *time.Time     `json:"revoked_at,omitempty"`
}

// Milestone is a one-time lifecycle achievement.
type Milestone struct {
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// InteractionLog is one user interaction held in the working cache.
type InteractionLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	Response  string    `json:"response,omitempty"`
	Emotion   string    `json:"emotion,omitempty"`
}

// SensorReading is the latest sample from one sensor.
type SensorReading struct {
	Timestamp      time.Time          `json:"timestamp"`
	Values         map[string]float64 `json:"values,omitempty"`
	MotionDetected bool               `json:"motion_detected,omitempty"`
}

// NameProfile is the naming record collaborators store in the heart.
// The heart itself treats the stored block as opaque.
type NameProfile struct {
	AIName           string     `json:"ai_name,omitempty"`
	UserName         string     `json:"user_name,omitempty"`
	NamingStatus     string     `json:"naming_status"`
	DateNamed        *time.Time `json:"date_named,omitempty"`
	TotalNameChanges int        `json:"total_name_changes"`
	NameAttachment   float64    `json:"emotional_attachment_to_name"`
	UseInGreetings   bool       `json:"use_name_in_greetings"`
	UseInConversation bool      `json:"use_name_in_conversations"`
	UseUserName      bool       `json:"use_user_name_in_responses"`
}

// PersonaProfile is the persona record collaborators store in the heart.
type PersonaProfile struct {
	Face               string  `json:"face,omitempty"`
	Behavior           string  `json:"behavior,omitempty"`
	Voice              string  `json:"voice,omitempty"`
	AdoptionProgress   float64 `json:"adoption_progress"`
	Archetype          string  `json:"archetype,omitempty"`
	ReferenceImageHash string  `json:"reference_image_hash,omitempty"`
}
