package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile controls how much data the seeder generates. Profiles are
// loaded from YAML so different environments (demo, load-test, CI) can
// keep their shapes in version control.
type Profile struct {
	Users int `yaml:"users"`
	Posts int `yaml:"posts"`

	// MaxCommentsPerPost and MaxRepliesPerComment bound the random
	// thread depth per post.
	MaxCommentsPerPost   int `yaml:"max_comments_per_post"`
	MaxRepliesPerComment int `yaml:"max_replies_per_comment"`

	// ReactionRate is the chance (0..1) that any given user reacts to
	// any given post. ShareRate and FriendRate work the same way.
	ReactionRate float64 `yaml:"reaction_rate"`
	ShareRate    float64 `yaml:"share_rate"`
	FriendRate   float64 `yaml:"friend_rate"`

	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int `yaml:"max_days"`

	// SkipBcrypt stores a plaintext password instead of hashing. Makes
	// large seeds dramatically faster; never use outside development.
	SkipBcrypt bool `yaml:"skip_bcrypt"`
}

// DefaultProfile is a medium-sized dataset suitable for local development.
func DefaultProfile() Profile {
	return Profile{
		Users:                50,
		Posts:                200,
		MaxCommentsPerPost:   8,
		MaxRepliesPerComment: 3,
		ReactionRate:         0.15,
		ShareRate:            0.03,
		FriendRate:           0.2,
		MaxDays:              90,
	}
}

// LoadProfile reads a YAML profile from path, filling unset numeric
// fields from the default profile.
func LoadProfile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read seed profile: %w", err)
	}

	p := DefaultProfile()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("parse seed profile %s: %w", path, err)
	}
	if p.Users <= 0 || p.Posts < 0 {
		return Profile{}, fmt.Errorf("seed profile %s: users must be positive, posts non-negative", path)
	}
	return p, nil
}
