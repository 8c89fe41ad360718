package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/rs/zerolog"

	"github.com/formrush/formrush/internal/answergen"
	"github.com/formrush/formrush/internal/formwire"
	"github.com/formrush/formrush/internal/gforms"
)

var locales = []string{"en", "en_US", "en_GB", "en_IN", "en_AU", "de", "fr", "es"}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	ctx := context.Background()

	var formURL string
	if err := survey.AskOne(&survey.Input{
		Message: "Form URL:",
		Help:    "A docs.google.com/forms link or a forms.gle short link",
	}, &formURL, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	fetcher := gforms.NewFetcher(nil, logger)
	fmt.Println("Fetching form...")
	form, err := fetcher.Fetch(ctx, formURL)
	if err != nil {
		return fmt.Errorf("parse form: %w", err)
	}

	printForm(form)

	var countRaw string
	if err := survey.AskOne(&survey.Input{
		Message: "Responses to submit:",
		Default: "10",
	}, &countRaw, survey.WithValidator(positiveInt)); err != nil {
		return err
	}
	count, _ := strconv.Atoi(strings.TrimSpace(countRaw))

	var locale string
	if err := survey.AskOne(&survey.Select{
		Message: "Locale for generated answers:",
		Options: locales,
		Default: "en",
	}, &locale); err != nil {
		return err
	}

	var skipOptional bool
	if err := survey.AskOne(&survey.Confirm{
		Message: "Skip optional questions?",
		Default: false,
	}, &skipOptional); err != nil {
		return err
	}

	var proceed bool
	if err := survey.AskOne(&survey.Confirm{
		Message: fmt.Sprintf("Submit %d generated responses to %q?", count, form.Title),
		Default: false,
	}, &proceed); err != nil {
		return err
	}
	if !proceed {
		fmt.Println("Aborted.")
		return nil
	}

	return runBatch(ctx, logger, form, count, locale, skipOptional)
}

func positiveInt(val interface{}) error {
	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("expected a number")
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive integer")
	}
	return nil
}

func printForm(form *formwire.ParsedForm) {
	fmt.Printf("\n%s\n", form.Title)
	fmt.Println(gforms.ViewURL(form.FormID, form.IsPublishedForm))
	if form.Description != "" {
		fmt.Println(form.Description)
	}
	fmt.Printf("%d questions", len(form.Questions))
	if len(form.PageHistory) > 1 {
		fmt.Printf(" across %d pages", len(form.PageHistory))
	}
	fmt.Println()
	for i, q := range form.Questions {
		marker := " "
		if q.Required {
			marker = "*"
		}
		fmt.Printf("  %2d.%s %s (%s)\n", i+1, marker, q.Title, q.Type)
	}
	for _, q := range form.SkippedQuestions {
		fmt.Printf("   -- skipped: %s (%s)\n", q.Title, q.SkipReason)
	}
	if form.RequiresSignIn {
		fmt.Println("  warning: the form page shows sign-in markers; submissions may be rejected")
	}
	fmt.Println()
}

func runBatch(ctx context.Context, logger zerolog.Logger, form *formwire.ParsedForm, count int, locale string, skipOptional bool) error {
	submitter := gforms.NewSubmitter(nil, logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	type failure struct {
		index  int
		status int
		err    error
	}
	var failures []failure
	start := time.Now()

	for i := 0; i < count; i++ {
		resp := answergen.NewResponse(locale, nil)
		payload := answergen.BuildPayload(resp, form.Questions, nil, form.PageHistory, skipOptional)

		status, err := submitter.Submit(ctx, form.FormID, form.IsPublishedForm, payload)
		if err != nil {
			failures = append(failures, failure{index: i, status: status, err: err})
			fmt.Printf("  [%d/%d] failed (status %d)\n", i+1, count, status)
		} else {
			fmt.Printf("  [%d/%d] submitted\n", i+1, count)
		}

		if i < count-1 {
			time.Sleep(time.Second + time.Duration(rng.Int63n(int64(2*time.Second))))
		}
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	fmt.Printf("\nDone: %d submitted, %d failed in %s\n", count-len(failures), len(failures), elapsed)
	for _, f := range failures {
		fmt.Printf("  response %d: %v\n", f.index+1, f.err)
	}
	return nil
}
