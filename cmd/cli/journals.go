// cmd/cli/journals.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/notenest/notenest/internal/model"
)

// entryDate formats the entry date the way the journal pages do.
func entryDate(d string) string {
	if d != "" {
		return d
	}
	return time.Now().Format("2006-01-02")
}

func cmdStats(ctx context.Context, a *app) {
	a.protected(ctx, func(ctx context.Context) error {
		page, err := a.journals.Stats(ctx)
		if err != nil {
			return err
		}
		printJSON(map[string]any{
			"totalEntries":   page.TotalEntries,
			"categoryCounts": page.CategoryCounts,
			"recent":         page.Entries,
		})
		return nil
	})
}

func cmdList(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 10, "entries per page")
	_ = fs.Parse(args)

	a.protected(ctx, func(ctx context.Context) error {
		out, err := a.journals.List(ctx, *page, *limit)
		if err != nil {
			return err
		}
		printJSON(out)
		return nil
	})
}

func cmdGet(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "entry id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.protected(ctx, func(ctx context.Context) error {
		entry, err := a.journals.Get(ctx, *id)
		if err != nil {
			return err
		}
		printJSON(entry)
		return nil
	})
}

func cmdAdd(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "entry title")
	content := fs.String("content", "", "entry text")
	file := fs.String("file", "", "read entry text from file ('-' for stdin)")
	category := fs.String("category", "", "PersonalDevelopment, Work, or Travel")
	date := fs.String("date", "", "entry date (YYYY-MM-DD, default today)")
	_ = fs.Parse(args)
	if *title == "" || *category == "" {
		fmt.Fprintln(os.Stderr, "need -title and -category")
		os.Exit(1)
	}
	text := *content
	if *file != "" {
		b, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		text = string(b)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "need -content or -file")
		os.Exit(1)
	}

	a.protected(ctx, func(ctx context.Context) error {
		err := a.journals.Create(ctx, model.Entry{
			Title:    *title,
			Content:  text,
			Category: *category,
			Date:     entryDate(*date),
		})
		if err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	})
}

func cmdEdit(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "entry id")
	title := fs.String("title", "", "entry title")
	content := fs.String("content", "", "entry text")
	category := fs.String("category", "", "entry category")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.protected(ctx, func(ctx context.Context) error {
		err := a.journals.Update(ctx, *id, model.Entry{
			Title:    *title,
			Content:  *content,
			Category: *category,
		})
		if err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	})
}

func cmdRm(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.String("id", "", "entry id")
	_ = fs.Parse(args)
	if *id == "" {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.protected(ctx, func(ctx context.Context) error {
		if err := a.journals.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	})
}

func cmdProfile(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	u := fs.String("u", "", "new username")
	p := fs.String("p", "", "new password")
	_ = fs.Parse(args)
	if *u == "" {
		fmt.Fprintln(os.Stderr, "need -u")
		os.Exit(1)
	}

	a.protected(ctx, func(ctx context.Context) error {
		if err := a.sessions.UpdateProfile(ctx, *u, *p); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	})
}
