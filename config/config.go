// Package config loads the TOML node configuration for velesd: data
// directories, listen addresses, the genesis spec path, and the system
// account signing key, following the teacher's load-or-create-default
// pattern.
package config

import (
	"encoding/hex"
	"os"

	"github.com/BurntSushi/toml"

	"veles/crypto"
)

// Config is velesd's node-level configuration.
type Config struct {
	ListenAddress   string  `toml:"ListenAddress"`
	RPCAddress      string  `toml:"RPCAddress"`
	DataDir         string  `toml:"DataDir"`
	GenesisFile     string  `toml:"GenesisFile"`
	SystemKey       string  `toml:"SystemKey"`
	SystemKeystore  string  `toml:"SystemKeystore"`
	LogFile         string  `toml:"LogFile"`
	IndexerDSN      string  `toml:"IndexerDSN"`
	SubmissionRate  float64 `toml:"SubmissionRate"`
	SubmissionBurst int     `toml:"SubmissionBurst"`
}

// Load reads the configuration at path, creating a default file (with a
// freshly generated system key) if none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.SystemKey == "" {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		cfg.SystemKey = hex.EncodeToString(key.Bytes())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, os.ModePerm)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddress:   ":6001",
		RPCAddress:      ":8080",
		DataDir:         "./veles-data",
		GenesisFile:     "./genesis.yaml",
		SystemKey:       hex.EncodeToString(key.Bytes()),
		SubmissionRate:  1,
		SubmissionBurst: 5,
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
