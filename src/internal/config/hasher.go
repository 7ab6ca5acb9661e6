package config

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/hashing"
)

const hashCacheTTL = 5 * time.Minute

// ConfigHasher calculates an MD5 hash of the configuration so a running daemon
// can report that the file on disk no longer matches what it started with.
type ConfigHasher struct {
	configPath string

	// Current hash (from config file) with caching
	currentHash     string
	currentHashTime time.Time

	// Active hash (from running daemon)
	activeHash string

	mu sync.RWMutex
}

// NewConfigHasher creates a new config hasher
func NewConfigHasher(configPath string) *ConfigHasher {
	return &ConfigHasher{
		configPath: configPath,
	}
}

// GetCurrentConfigHash returns cached hash of current config file
// Automatically calls UpdateCurrentConfigHash() on cache miss
func (h *ConfigHasher) GetCurrentConfigHash() (string, error) {
	h.mu.RLock()
	if time.Since(h.currentHashTime) < hashCacheTTL && h.currentHash != "" {
		hash := h.currentHash
		h.mu.RUnlock()
		return hash, nil
	}
	h.mu.RUnlock()

	return h.UpdateCurrentConfigHash()
}

// UpdateCurrentConfigHash recalculates config hash and resets cache
func (h *ConfigHasher) UpdateCurrentConfigHash() (string, error) {
	cfg, err := LoadConfig(h.configPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	hash, err := CalculateHash(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentHash = hash
	h.currentHashTime = time.Now()

	return hash, nil
}

// GetActiveConfigHash returns hash of config that was active when the daemon started
func (h *ConfigHasher) GetActiveConfigHash() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.activeHash
}

// SetActiveConfigHash sets the hash of config when the daemon starts
func (h *ConfigHasher) SetActiveConfigHash(hash string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.activeHash = hash
}

// IsStale reports whether the file on disk differs from the active config.
func (h *ConfigHasher) IsStale() (bool, error) {
	current, err := h.GetCurrentConfigHash()
	if err != nil {
		return false, err
	}
	active := h.GetActiveConfigHash()
	return active != "" && active != current, nil
}

// configHashData is the structure used for hashing. Plaintext passwords are
// never part of it; only whether one is set and protected envelopes are.
type configHashData struct {
	Config            *Config `json:"config"`
	PasswordEnvelope  string  `json:"password_envelope,omitempty"`
	PasswordProtected bool    `json:"password_protected"`
}

// CalculateHash generates MD5 hash of the configuration.
func CalculateHash(config *Config) (string, error) {
	data := configHashData{
		Config:            config,
		PasswordProtected: config.Password.IsProtected(),
	}
	if config.Password.IsProtected() {
		data.PasswordEnvelope = config.Password.String()
	}

	// Map keys are sorted by encoding/json, so the output is deterministic.
	w := hashing.NewMD5Writer()
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return "", fmt.Errorf("failed to marshal config data: %w", err)
	}
	return w.GetChecksum(), nil
}
