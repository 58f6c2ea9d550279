package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{Dimensions: 1536},
		Tiers: TierConfig{
			Tier1Threshold: 0.85,
			Tier2Threshold: 0.70,
			Tier3Threshold: 0.50,
			CacheTopK:      5,
		},
		Tutoring: TutoringConfig{MaxDepth: 5},
		Session:  SessionConfig{TTLSeconds: 3600, CleanupIntervalSeconds: 300},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsUnorderedTiers(t *testing.T) {
	cfg := validConfig()
	cfg.Tiers.Tier2Threshold = 0.90
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Tiers.Tier3Threshold = 0.75
	assert.Error(t, cfg.Validate())
}

func TestValidateAllowsEqualTiers(t *testing.T) {
	cfg := validConfig()
	cfg.Tiers.Tier1Threshold = 0.70
	cfg.Tiers.Tier2Threshold = 0.70
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Dimensions = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Tutoring.MaxDepth = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Session.TTLSeconds = 0
	assert.Error(t, cfg.Validate())
}
