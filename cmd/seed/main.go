// Package main seeds a staff directory database with demo data.
//
// It creates org groups, accounts with profiles, tags and thanks notes, then
// prints a development access token for every demo account. Running it twice
// is safe: existing accounts and groups are reused.
//
// Usage:
//
//	DATA_PATH=~/StaffDirectory/data go run ./cmd/seed
//	go run ./cmd/seed --tokens=false   # skip token output
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/staff-directory/internal/auth"
	"github.com/listenupapp/staff-directory/internal/cache"
	"github.com/listenupapp/staff-directory/internal/config"
	"github.com/listenupapp/staff-directory/internal/domain"
	"github.com/listenupapp/staff-directory/internal/id"
	"github.com/listenupapp/staff-directory/internal/logger"
	"github.com/listenupapp/staff-directory/internal/search"
	"github.com/listenupapp/staff-directory/internal/service"
	"github.com/listenupapp/staff-directory/internal/slug"
	"github.com/listenupapp/staff-directory/internal/store"
	"github.com/listenupapp/staff-directory/internal/store/sqlite"
)

var printTokens = flag.Bool("tokens", true, "Print a development access token per demo account")

type demoGroup struct {
	title  string
	parent string
}

type demoPerson struct {
	first, last string
	title       string
	group       string
	hidden      bool
	noTagging   bool
	about       string
	tags        map[domain.TagCategory][]string
}

type demoThanks struct {
	from, to string
	value    domain.PraiseValue
	reason   string
}

var groups = []demoGroup{
	{title: "Engineering"},
	{title: "Platform", parent: "Engineering"},
	{title: "Mobile", parent: "Engineering"},
	{title: "Operations"},
	{title: "People Team", parent: "Operations"},
}

var people = []demoPerson{
	{
		first: "Ada", last: "Lovelace", title: "Principal Engineer", group: "Engineering",
		about: "<p>I write programs for machines that <strong>do not exist yet</strong>.</p>",
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise: {"Algorithms", "Go", "Mathematics"},
			domain.CategoryProjects:  {"Analytical Engine"},
		},
	},
	{
		first: "Alan", last: "Turing", title: "Staff Engineer", group: "Platform",
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise:   {"Cryptography", "Go", "Mathematics"},
			domain.CategoryOtherThings: {"Running"},
		},
	},
	{
		first: "Grace", last: "Hopper", title: "Engineering Manager", group: "Platform",
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise: {"Compilers", "COBOL"},
			domain.CategoryProjects:  {"Analytical Engine"},
		},
	},
	{
		first: "Margaret", last: "Hamilton", title: "Mobile Lead", group: "Mobile",
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise: {"Kotlin", "Swift", "Reliability"},
		},
	},
	{
		first: "Katherine", last: "Johnson", title: "Data Scientist", group: "Engineering", noTagging: true,
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise: {"Mathematics", "Python"},
		},
	},
	{
		first: "Frances", last: "Perkins", title: "Head of People", group: "People Team",
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise:   {"Hiring", "Policy"},
			domain.CategoryOtherThings: {"Running"},
		},
	},
	{
		first: "Linus", last: "Torvalds", title: "Contractor", group: "Platform", hidden: true,
		tags: map[domain.TagCategory][]string{
			domain.CategoryExpertise: {"C", "Go"},
		},
	},
}

var thanks = []demoThanks{
	{from: "alan-turing", to: "ada-lovelace", value: domain.ValueInnovate, reason: "Explained loops to the whole team."},
	{from: "grace-hopper", to: "alan-turing", value: domain.ValueServe, reason: "Stayed late to fix the deploy."},
	{from: "ada-lovelace", to: "grace-hopper", value: domain.ValueLead, reason: "Ran a great planning week."},
	{from: "frances-perkins", to: "margaret-hamilton", value: domain.ValueLead, reason: "Mentored three new hires."},
	{from: "margaret-hamilton", to: "katherine-johnson", value: domain.ValueServe, reason: "Checked every number twice."},
}

func main() {
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.New(logger.Config{Level: logger.ParseLevel(cfg.Logger.Level), Environment: cfg.App.Environment})

	fmt.Printf("Opening database at: %s\n", cfg.Data.DatabasePath())

	st, err := sqlite.Open(cfg.Data.DatabasePath(), slogger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: cfg.Data.SearchPath(), Logger: slogger})
	if err != nil {
		log.Fatalf("Failed to open search index (is the server running?): %v", err)
	}
	defer index.Close()

	ctx := context.Background()
	noop := cache.NewNoop()
	tags := service.NewTagService(st, noop, index, nil, nil, slogger)
	praise := service.NewPraiseService(st, noop, nil, nil, cfg.Directory.ThanksPageSize, cfg.Directory.ThanksPageWindow, slogger)
	searchSvc := service.NewSearchService(index, st, slogger)

	groupIDs := seedGroups(ctx, st)
	fmt.Printf("Org groups ready: %d\n", len(groupIDs))

	accounts := make(map[string]*domain.Account, len(people))
	for _, dp := range people {
		acct, created := seedPerson(ctx, st, dp, groupIDs)
		accounts[stubFor(dp)] = acct

		status := "exists"
		if created {
			status = "created"
		}
		fmt.Printf("  %-20s %s\n", stubFor(dp), status)

		for category, names := range dp.tags {
			for _, name := range names {
				_, err := tags.AddTag(ctx, acct.ID, service.AddTagInput{
					Stub:     stubFor(dp),
					Category: string(category),
					Tag:      name,
				})
				if err != nil {
					log.Printf("Failed to tag %s with %q: %v", stubFor(dp), name, err)
				}
			}
		}
	}

	if count, err := st.CountPraise(ctx); err == nil && count == 0 {
		for _, th := range thanks {
			from, ok := accounts[th.from]
			if !ok {
				continue
			}
			_, err := praise.SubmitPraise(ctx, from.ID, service.SubmitPraiseInput{
				Stub:   th.to,
				Value:  string(th.value),
				Reason: th.reason,
			})
			if err != nil {
				log.Printf("Failed to thank %s: %v", th.to, err)
			}
		}
		fmt.Printf("Recorded %d thanks notes\n", len(thanks))
	}

	if err := searchSvc.ReindexAll(ctx); err != nil {
		log.Printf("Search reindex failed: %v", err)
	}

	if *printTokens {
		printDevTokens(cfg, accounts)
	}

	fmt.Println("\nSeeding complete!")
}

func stubFor(dp demoPerson) string {
	return slug.Stub(dp.first, dp.last)
}

func seedGroups(ctx context.Context, st *sqlite.Store) map[string]string {
	ids := make(map[string]string, len(groups))
	for _, g := range groups {
		existing, err := st.GetOrgGroupByTitle(ctx, g.title)
		if err == nil {
			ids[g.title] = existing.ID
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Fatalf("Failed to look up group %q: %v", g.title, err)
		}

		group := &domain.OrgGroup{
			ID:       id.MustGenerate(id.PrefixOrgGroup),
			Title:    g.title,
			ParentID: ids[g.parent],
		}
		if err := st.CreateOrgGroup(ctx, group); err != nil {
			log.Fatalf("Failed to create group %q: %v", g.title, err)
		}
		ids[g.title] = group.ID
	}
	return ids
}

func seedPerson(ctx context.Context, st *sqlite.Store, dp demoPerson, groupIDs map[string]string) (*domain.Account, bool) {
	email := fmt.Sprintf("%s.%s@example.com", strings.ToLower(dp.first), strings.ToLower(dp.last))

	acct, err := st.GetAccountByEmail(ctx, email)
	if err == nil {
		return acct, false
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Fatalf("Failed to look up %s: %v", email, err)
	}

	acct = &domain.Account{
		ID:        id.MustGenerate(id.PrefixAccount),
		Email:     email,
		FirstName: dp.first,
		LastName:  dp.last,
		IsActive:  true,
	}
	if err := st.CreateAccount(ctx, acct); err != nil {
		log.Fatalf("Failed to create account %s: %v", email, err)
	}

	p := &domain.Person{
		ID:           id.MustGenerate(id.PrefixPerson),
		AccountID:    acct.ID,
		Stub:         stubFor(dp),
		Title:        dp.title,
		HideProfile:  dp.hidden,
		AllowTagging: !dp.noTagging,
		OrgGroupID:   groupIDs[dp.group],
		Bio:          domain.Bio{AboutMe: dp.about},
		UpdatedAt:    time.Now().UTC(),
	}
	if err := st.CreatePerson(ctx, p); err != nil {
		log.Fatalf("Failed to create profile %s: %v", p.Stub, err)
	}
	return acct, true
}

func printDevTokens(cfg *config.Config, accounts map[string]*domain.Account) {
	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	fmt.Println("\nDevelopment tokens (valid 24h):")
	for _, dp := range people {
		acct := accounts[stubFor(dp)]
		token, err := tokens.GenerateAccessToken(acct)
		if err != nil {
			slog.Warn("token generation failed", "stub", stubFor(dp), "error", err)
			continue
		}
		fmt.Printf("  %-20s %s\n", stubFor(dp), token)
	}
}
