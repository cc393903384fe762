package config

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// LetterheadRegistry reads named sender blocks from an ini file:
//
//	[shilat]
//	name = SHILAT LLC
//	address = 21 GRASSMERE ST|LKWD, NJ 08701
//	logo_url = /shilat_logo.png
type LetterheadRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetLetterhead(ctx context.Context, profile string) (*LetterheadConfig, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewLetterheadRegistry(path string) (LetterheadRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load letterhead profiles: %w", err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *iniRegistry) GetLetterhead(_ context.Context, profile string) (*LetterheadConfig, error) {
	if !r.cfg.HasSection(profile) {
		return nil, fmt.Errorf("letterhead profile %s not found", profile)
	}
	section := r.cfg.Section(profile)

	var lines []string
	for _, line := range strings.Split(section.Key("address").String(), "|") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return &LetterheadConfig{
		Name:         section.Key("name").String(),
		AddressLines: lines,
		LogoURL:      section.Key("logo_url").String(),
		LogoAlt:      section.Key("logo_alt").MustString(section.Key("name").String()),
		Profile:      profile,
	}, nil
}

// ResolveLetterhead returns the configured letterhead, replaced by the named
// profile when one is set.
func ResolveLetterhead(ctx context.Context, c LetterheadConfig) (LetterheadConfig, error) {
	if c.ProfilesPath == "" || c.Profile == "" {
		return c, nil
	}
	registry, err := NewLetterheadRegistry(c.ProfilesPath)
	if err != nil {
		return c, err
	}
	resolved, err := registry.GetLetterhead(ctx, c.Profile)
	if err != nil {
		return c, err
	}
	resolved.ProfilesPath = c.ProfilesPath
	return *resolved, nil
}
