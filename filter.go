// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/alf

package alf

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// Filter selects entries by gitignore-style include/exclude rules.
type Filter struct {
	matcher *pathrules.Matcher
}

// NewFilter compiles include rules followed by exclude rules.
// Without include rules everything not excluded matches.
func NewFilter(include []string, exclude []string) (*Filter, error) {
	rules := make([]pathrules.Rule, 0, len(include)+len(exclude))
	rules = appendFilterRules(rules, pathrules.Rule{Action: pathrules.ActionInclude}, include)
	hasInclude := len(rules) > 0
	rules = appendFilterRules(rules, pathrules.Rule{Action: pathrules.ActionExclude}, exclude)
	if len(rules) == 0 {
		return nil, nil
	}

	defaultAction := pathrules.ActionInclude
	if hasInclude {
		defaultAction = pathrules.ActionExclude
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: defaultAction,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFilterPattern, err)
	}

	return &Filter{matcher: matcher}, nil
}

// appendFilterRules normalizes patterns, drops empty ones and appends them with template action.
func appendFilterRules(rules []pathrules.Rule, template pathrules.Rule, patterns []string) []pathrules.Rule {
	for _, pattern := range patterns {
		pattern = ToPOSIX(strings.TrimSpace(pattern))
		pattern = strings.TrimPrefix(pattern, "./")
		if pattern == "" {
			continue
		}

		rule := template
		rule.Pattern = pattern
		rules = append(rules, rule)
	}

	return rules
}

// Match reports whether path passes the filter. Nil filter matches everything.
func (f *Filter) Match(path string) bool {
	if f == nil || f.matcher == nil {
		return true
	}

	candidate := trimSourcePath(ToPOSIX(path))
	if candidate == "" {
		return false
	}

	return f.matcher.Included(candidate, false)
}
