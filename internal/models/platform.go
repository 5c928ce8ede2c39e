package models

import (
	"regexp"
	"strings"
)

var (
	visionPattern  = regexp.MustCompile(`(?s)Visi:(.*?)(?:Misi:|\z)`)
	missionPattern = regexp.MustCompile(`(?s)Misi:(.*)`)
	missionSplit   = regexp.MustCompile(`,\s?|\r?\n`)
)

// ParsePlatform reads the legacy "Visi: ...\nMisi:\n- ..." text blob.
// Text without a "Visi:" marker is taken whole as the vision.
func ParsePlatform(platform string) (vision string, mission []string) {
	if m := visionPattern.FindStringSubmatch(platform); m != nil {
		vision = strings.TrimSpace(m[1])
	} else if !strings.Contains(platform, "Misi:") {
		vision = strings.TrimSpace(platform)
	}

	if m := missionPattern.FindStringSubmatch(platform); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
			if item != "" {
				mission = append(mission, item)
			}
		}
	}
	return vision, mission
}

// SplitMission splits a spreadsheet mission cell on commas or newlines.
func SplitMission(cell string) []string {
	var out []string
	for _, part := range missionSplit.Split(cell, -1) {
		item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "-"))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Platform renders vision and mission back into the legacy text form.
func (c Candidate) Platform() string {
	var b strings.Builder
	b.WriteString("Visi: ")
	b.WriteString(c.Vision)
	b.WriteString("\nMisi:")
	for _, m := range c.Mission {
		b.WriteString("\n- ")
		b.WriteString(m)
	}
	return b.String()
}
