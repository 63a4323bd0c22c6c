// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lifecycle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
)

func TestRoutingStore(t *testing.T) {
	ctx := context.Background()
	inFile := NewMemoryStore()
	sidecar := NewMemoryStore()
	r := NewRoutingStore(inFile, sidecar, func(p string) bool { return strings.HasSuffix(p, ".xlsx") })

	xlsx := &fakeDoc{path: "/a/b.xlsx"}
	csv := &fakeDoc{path: "/a/b.csv"}
	unsaved := &fakeDoc{id: "u1"}

	require.NoError(t, r.Write(ctx, xlsx, classification.Secret))
	require.NoError(t, r.Write(ctx, csv, classification.Public))
	require.NoError(t, r.Write(ctx, unsaved, classification.Restricted))

	_, ok := inFile.Raw(xlsx)
	assert.True(t, ok)
	_, ok = sidecar.Raw(xlsx)
	assert.False(t, ok)
	_, ok = sidecar.Raw(csv)
	assert.True(t, ok)
	_, ok = sidecar.Raw(unsaved)
	assert.True(t, ok)

	level, ok := r.Read(ctx, xlsx)
	assert.True(t, ok)
	assert.Equal(t, classification.Secret, level)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := &fakeDoc{path: "/x.docx"}

	require.NoError(t, s.Write(ctx, doc, classification.TopSecret))
	require.NoError(t, s.Write(ctx, doc, classification.Public))
	level, ok := s.Read(ctx, doc)
	require.True(t, ok)
	assert.Equal(t, classification.Public, level)

	s.SetRaw(doc, "secret")
	_, ok = s.Read(ctx, doc)
	assert.False(t, ok, "names are case-sensitive")
}
