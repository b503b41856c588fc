package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

type config struct {
	LastUsedSink   string
	LastUsedSource string
	Verbose        bool
}

const configFile = "config.toml"

func initializeConfigIfNot() {
	dir := configDir()
	ok, err := exists(dir)
	if err != nil {
		log.Fatal("checking config directory", "err", err)
	}
	if !ok {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Fatal("creating config directory", "err", err)
		}
	}

	f := filepath.Join(dir, configFile)
	ok, err = exists(f)
	if err != nil {
		log.Fatal("checking config file", "err", err)
	}
	if !ok {
		writeConfig(&config{})
	}
}

func readConfig() *config {
	f := filepath.Join(configDir(), configFile)
	conf := config{}
	if _, err := toml.DecodeFile(f, &conf); err != nil {
		log.Fatal("reading config file", "err", err)
	}
	return &conf
}

func writeConfig(conf *config) {
	f := filepath.Join(configDir(), configFile)
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(conf); err != nil {
		log.Fatal("encoding config file", "err", err)
	}
	if err := os.WriteFile(f, buf.Bytes(), 0644); err != nil {
		log.Fatal("writing config file", "err", err)
	}
}

func configDir() string {
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(os.Getenv("HOME"), ".config")), "pulsectl")
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func xdgOrFallback(xdg, fallback string) string {
	if dir := os.Getenv(xdg); dir != "" {
		if ok, err := exists(dir); ok && err == nil {
			return dir
		}
	}
	return fallback
}
