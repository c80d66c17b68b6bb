// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"github.com/morganforge/haven-tui/internal/model"
	"github.com/morganforge/haven-tui/internal/storage"
)

// =============================================================================
// PROFILE
// =============================================================================

// Profile returns the buffered profile editor. Edits stage locally and
// only reach the store through SaveProfile.
func (e *Engine) Profile() *model.ProfileEditor {
	return e.profile
}

// SaveProfile commits any staged profile edits and writes the root
// record. A clean editor is a no-op. On a store failure the commit is
// rolled back so the editor stays dirty and the user can retry.
func (e *Engine) SaveProfile(ctx context.Context) error {
	e.mu.Lock()
	editor := e.profile
	e.mu.Unlock()

	before := editor.Committed()
	if !editor.Save() {
		return nil
	}

	if err := e.store.Set(ctx, storage.UserPath(e.user.ID), rootDocument{Profile: editor.Committed()}); err != nil {
		staged := editor.Committed()
		editor.Reset(before)
		restage(editor, staged)
		return err
	}
	return nil
}

// restage re-applies every field of p as staged edits.
func restage(editor *model.ProfileEditor, p model.Profile) {
	editor.StageName(p.Name)
	editor.StageAge(p.Age)
	editor.StageGender(p.Gender)
	editor.StageAvatar(p.AvatarPath)
}
