// Package importer turns vCard data into person records. Sources are either
// a local .vcf file or a CardDAV/WebDAV URL with basic auth; the CardDAV
// password lives in the system keyring, never in config files.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/model"
)

// Importer reads vCards from a source and converts them to people.
type Importer struct {
	Fetcher VCardFetcher

	// CardDAVUser is the basic-auth user for web sources, usually taken from
	// the environment.
	CardDAVUser string
}

// New returns an Importer wired with the real HTTP fetcher.
func New() *Importer {
	return &Importer{
		Fetcher:     NewHTTPFetcher(),
		CardDAVUser: os.Getenv(config.EnvCardDAVUser),
	}
}

// StoreCardDAVPassword saves the CardDAV password in the system keyring.
func StoreCardDAVPassword(password string) error {
	return keyring.Set(config.KeyringService, config.KeyringCardDAVKey, password)
}

// cardDAVPassword reads the CardDAV password from the keyring. An empty
// string is returned when nothing is stored; many servers accept
// unauthenticated reads so this is not fatal.
func cardDAVPassword() string {
	pass, err := keyring.Get(config.KeyringService, config.KeyringCardDAVKey)
	if err != nil {
		slog.Debug(config.ErrKeyringRead,
			config.LogKeyComponent, config.CompImporter,
			config.LogKeyError, err,
		)
		return ""
	}
	return pass
}

// Import reads the source (local path or http(s) URL) and returns the people
// parsed from it. Malformed cards are skipped, never fatal.
func (i *Importer) Import(ctx context.Context, source string) ([]model.Person, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompImporter,
		config.LogKeySource, source,
	)
	log.Info(config.MsgImportStarted)

	reader, err := i.acquireStream(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	people, skipped, err := parsePeople(ctx, reader)
	if err != nil {
		return nil, err
	}

	log.Info(config.MsgImportDone,
		config.LogKeyImported, len(people),
		config.LogKeySkipped, skipped,
	)
	return people, nil
}

func (i *Importer) acquireStream(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == "":
		return nil, errors.New(config.ErrSourceUnknown)
	case strings.HasPrefix(source, config.SchemeHTTP+"://"), strings.HasPrefix(source, config.SchemeHTTPS+"://"):
		if i.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return i.Fetcher.Fetch(ctx, source, i.CardDAVUser, cardDAVPassword())
	default:
		return os.Open(source)
	}
}

func parsePeople(ctx context.Context, r io.Reader) ([]model.Person, int, error) {
	decoder := vcard.NewDecoder(r)

	var people []model.Person
	skipped := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Continue to the next card to maximize data recovery.
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyError, err,
			)
			skipped++
			continue
		}

		person, ok := cardToPerson(card)
		if !ok {
			skipped++
			continue
		}
		people = append(people, person)
	}

	return people, skipped, nil
}

// cardToPerson maps a single vCard to a person. A card without any name is
// skipped; a card without a birthday still imports as a bare contact.
func cardToPerson(card vcard.Card) (model.Person, bool) {
	// Name strategy: FN (Formatted) > N (Structured).
	var name string
	if fn := card.Get(config.VCardFN); fn != nil {
		name = strings.TrimSpace(fn.Value)
	}
	if name == "" {
		if n := card.Get(config.VCardN); n != nil {
			name = strings.TrimSpace(strings.ReplaceAll(n.Value, ";", " "))
		}
	}
	if name == "" {
		return model.Person{}, false
	}

	person := model.Person{
		ID:   uuid.NewString(),
		Name: name,
	}

	if tel := card.Get(config.VCardTEL); tel != nil {
		person.Phone = strings.TrimSpace(tel.Value)
	}

	if bday := card.Get(config.VCardBDAY); bday != nil && bday.Value != "" {
		if iso, ok := parseBirthday(bday.Value); ok {
			person.Moments = append(person.Moments, model.Moment{
				ID:        uuid.NewString(),
				Type:      model.MomentBirthday,
				Date:      iso,
				Recurring: true,
			})
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompImporter,
				config.LogKeyValue, bday.Value,
			)
		}
	}

	return person, true
}

// parseBirthday normalizes the vCard BDAY formats to the engine's ISO form.
// Year-less vCard dates (--MM-DD, --MMDD) map to the 0000 year sentinel.
func parseBirthday(value string) (string, bool) {
	formatsWithYear := []string{
		config.DateFormatISO,
		config.DateFormatFullBasic,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t.Format(config.DateFormatISO), true
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return fmt.Sprintf("%s-%02d-%02d", config.YearUnknownSentinel, int(t.Month()), t.Day()), true
		}
	}

	return "", false
}
