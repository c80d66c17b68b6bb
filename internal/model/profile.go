// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the user-editable profile stored in the root user document.
// It is independent of the chat history.
type Profile struct {
	Name       string `json:"name"`
	Age        string `json:"age,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Email      string `json:"email"`
	AvatarPath string `json:"avatar_path,omitempty"`
}

// Field returns a profile value, substituting "-" for blanks so the
// profile card never renders an empty row.
func Field(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// =============================================================================
// PROFILE EDITOR
// =============================================================================

// ProfileEditor implements the buffered-edit protocol: edits update a
// staging copy and set a dirty flag; the committed profile only changes on
// an explicit Save. Save is a no-op when nothing was staged.
type ProfileEditor struct {
	committed Profile
	staged    Profile
	dirty     bool
}

// NewProfileEditor creates an editor around a committed profile.
func NewProfileEditor(p Profile) *ProfileEditor {
	return &ProfileEditor{committed: p, staged: p}
}

// Committed returns the committed profile.
func (e *ProfileEditor) Committed() Profile {
	return e.committed
}

// Staged returns the staging copy, which reflects unsaved edits.
func (e *ProfileEditor) Staged() Profile {
	return e.staged
}

// Dirty reports whether unsaved edits exist.
func (e *ProfileEditor) Dirty() bool {
	return e.dirty
}

// StageName stages a new display name.
func (e *ProfileEditor) StageName(name string) { e.stage(func(p *Profile) { p.Name = name }) }

// StageAge stages a new age value.
func (e *ProfileEditor) StageAge(age string) { e.stage(func(p *Profile) { p.Age = age }) }

// StageGender stages a new gender value.
func (e *ProfileEditor) StageGender(g string) { e.stage(func(p *Profile) { p.Gender = g }) }

// StageAvatar stages a new avatar image path.
func (e *ProfileEditor) StageAvatar(path string) { e.stage(func(p *Profile) { p.AvatarPath = path }) }

func (e *ProfileEditor) stage(apply func(*Profile)) {
	apply(&e.staged)
	e.dirty = e.staged != e.committed
}

// Save commits staged edits and clears the dirty flag. Returns true when a
// commit actually happened, so callers know whether to persist.
func (e *ProfileEditor) Save() bool {
	if !e.dirty {
		return false
	}
	e.committed = e.staged
	e.dirty = false
	return true
}

// Reset replaces the committed profile and drops staged edits. Used to
// roll back a commit whose write to the store failed.
func (e *ProfileEditor) Reset(p Profile) {
	e.committed = p
	e.staged = p
	e.dirty = false
}

// Discard drops staged edits and clears the dirty flag.
func (e *ProfileEditor) Discard() {
	e.staged = e.committed
	e.dirty = false
}
