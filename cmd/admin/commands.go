package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type republisher interface {
	Republish(ctx context.Context, interviewID string) (*model.UploadDescriptor, error)
}

type admin struct {
	store   store.Store
	uploads republisher
	out     io.Writer
	now     func() time.Time
}

func (a *admin) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// pending lists interviews that have a video but are not finished.
func (a *admin) pending(ctx context.Context) error {
	ivs, err := a.store.ListInterviews(ctx, store.InterviewFilter{})
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(a.out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "User", "State", "Video", "Updated"})
	n := 0
	for _, iv := range ivs {
		if iv.VideoPath == "" || iv.State == model.StateFinished {
			continue
		}
		n++
		tw.AppendRow(table.Row{iv.ID, iv.UserID, iv.State, iv.VideoPath, iv.UpdatedAt.Format(time.RFC3339)})
	}
	tw.Render()
	fmt.Fprintf(a.out, "%d pending interview(s)\n", n)
	return nil
}

func (a *admin) requeue(ctx context.Context, interviewID string) error {
	d, err := a.uploads.Republish(ctx, interviewID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published descriptor for %s (%s)\n", d.InterviewID, d.VideoPath)
	return nil
}

type seedQuestion struct {
	Question            string         `json:"question"`
	Context             string         `json:"context"`
	Answer              string         `json:"answer"`
	Type                model.Category `json:"type"`
	ProgrammingLanguage model.Language `json:"programming_language"`
}

func (a *admin) seedFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.seed(ctx, f)
}

// seed validates every entry before writing any of them.
func (a *admin) seed(ctx context.Context, r io.Reader) error {
	var entries []seedQuestion
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode seed file: %w", err)
	}

	var errs []error
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			errs = append(errs, fmt.Errorf("entry %d: question is required", i))
		}
		if !e.Type.Valid() {
			errs = append(errs, fmt.Errorf("entry %d: invalid type %q", i, e.Type))
		}
		if !e.ProgrammingLanguage.Valid() {
			errs = append(errs, fmt.Errorf("entry %d: invalid programming_language %q", i, e.ProgrammingLanguage))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	now := a.clock().UTC()
	for _, e := range entries {
		q := &model.Question{
			ID:                  uuid.NewString(),
			Question:            e.Question,
			Context:             e.Context,
			Answer:              e.Answer,
			Type:                e.Type,
			ProgrammingLanguage: e.ProgrammingLanguage,
			Global:              true,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := a.store.CreateQuestion(ctx, q); err != nil {
			return fmt.Errorf("failed to create question %q: %w", e.Question, err)
		}
	}
	fmt.Fprintf(a.out, "Seeded %d global question(s)\n", len(entries))
	return nil
}

func (a *admin) setPlan(ctx context.Context, userID, plan string) error {
	p := model.Plan(plan)
	if !p.Valid() {
		return fmt.Errorf("invalid plan %q", plan)
	}
	if _, err := a.store.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}

	_, err := a.store.UpdateProfile(ctx, userID, model.ProfilePatch{Plan: &p})
	if errors.Is(err, store.ErrNotFound) {
		profile := model.NewProfile(userID, "", a.clock().UTC())
		profile.Subscription.Plan = p
		err = a.store.PutProfile(ctx, profile)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s is now on the %s plan\n", userID, p)
	return nil
}
