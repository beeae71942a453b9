package service

import (
	"context"
	"encoding/json"
	"testing"

	"wspace-be/internal/dto"
	"wspace-be/internal/pkg/apperror"
	"wspace-be/internal/repository/unitofwork"
	"wspace-be/pkg/database/databasetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteLifecycle(t *testing.T) {
	factory := unitofwork.NewRepositoryFactory(databasetest.NewSQLite(t))
	jobs := &fakeJobPublisher{}
	notes := NewNoteService(factory, jobs, SystemClock)
	ctx := context.Background()
	owner := uuid.New()

	created, err := notes.Create(ctx, owner, &dto.CreateNoteRequest{Title: "Standup", Content: "Ship the release"})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Analysis.Status)
	assert.Equal(t, "other", created.Analysis.Category)
	assert.NotNil(t, created.Analysis.Tags)

	require.Len(t, jobs.payloads, 1)
	var job dto.PublishAnalysisMessage
	require.NoError(t, json.Unmarshal(jobs.payloads[0], &job))
	assert.Equal(t, dto.AnalysisKindNote, job.Kind)
	assert.Equal(t, created.Id, job.Id)

	_, err = notes.Show(ctx, uuid.New(), created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	updated, err := notes.Update(ctx, owner, &dto.UpdateNoteRequest{Id: created.Id, Title: "Standup notes", Content: "Ship it"})
	require.NoError(t, err)
	assert.Equal(t, "Standup notes", updated.Title)
	assert.NotNil(t, updated.UpdatedAt)
	assert.Len(t, jobs.payloads, 2)

	list, err := notes.List(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = notes.List(ctx, owner, "work")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, notes.Delete(ctx, uuid.New(), created.Id), apperror.ErrNotFound)
	require.NoError(t, notes.Delete(ctx, owner, created.Id))

	_, err = notes.Show(ctx, owner, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDocumentLifecycle(t *testing.T) {
	factory := unitofwork.NewRepositoryFactory(databasetest.NewSQLite(t))
	jobs := &fakeJobPublisher{}
	docs := NewDocumentService(factory, jobs, SystemClock)
	ctx := context.Background()
	owner := uuid.New()

	created, err := docs.Create(ctx, owner, &dto.CreateDocumentRequest{FileName: "syllabus.pdf", Content: "Week 1: limits"})
	require.NoError(t, err)
	assert.Empty(t, created.Content, "content is only returned by Show")
	require.Len(t, jobs.payloads, 1)

	shown, err := docs.Show(ctx, owner, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "Week 1: limits", shown.Content)

	list, err := docs.List(ctx, uuid.New(), "")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, docs.Delete(ctx, owner, created.Id))
	_, err = docs.Show(ctx, owner, created.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
