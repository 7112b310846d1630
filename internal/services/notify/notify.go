// Package notify composes the notification emails sent by the API and the
// worker.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cennik/internal/models"
	"cennik/internal/services/mailer"
)

var ErrInvalidRequest = errors.New("invalid notification request")

// Recipients lists who receives each kind of notification.
type Recipients struct {
	FactorChange []string
	PriceError   []string
	Schedule     []string
}

type Notifier struct {
	mailer     mailer.Mailer
	recipients Recipients
}

func New(m mailer.Mailer, r Recipients) *Notifier {
	return &Notifier{mailer: m, recipients: r}
}

// FactorChangeRequest proposes a new manufacturer price factor.
type FactorChangeRequest struct {
	ProducerSlug   string  `json:"producerSlug"`
	ProducerName   string  `json:"producerName"`
	CurrentFactor  float64 `json:"currentFactor"`
	ProposedFactor float64 `json:"proposedFactor"`
	Reason         string  `json:"reason"`
	RequestedBy    string  `json:"requestedBy"`
}

// PriceErrorReport flags a price that looks wrong on the price list.
type PriceErrorReport struct {
	ProducerSlug   string   `json:"producerSlug"`
	ProducerName   string   `json:"producerName"`
	Category       string   `json:"category"`
	ProductName    string   `json:"productName"`
	DisplayedPrice float64  `json:"displayedPrice"`
	ExpectedPrice  *float64 `json:"expectedPrice"`
	Comment        string   `json:"comment"`
	Reporter       string   `json:"reporter"`
	ReporterEmail  string   `json:"reporterEmail"`
}

func (n *Notifier) FactorChange(ctx context.Context, req FactorChangeRequest) error {
	if req.ProducerSlug == "" || req.ProposedFactor <= 0 {
		return fmt.Errorf("%w: producerSlug and a positive proposedFactor are required", ErrInvalidRequest)
	}
	name := firstNonEmpty(req.ProducerName, req.ProducerSlug)

	var b strings.Builder
	fmt.Fprintf(&b, "Propozycja zmiany współczynnika cen\n\n")
	fmt.Fprintf(&b, "Producent: %s\n", name)
	fmt.Fprintf(&b, "Obecny współczynnik: %.4g\n", req.CurrentFactor)
	fmt.Fprintf(&b, "Proponowany współczynnik: %.4g\n", req.ProposedFactor)
	if req.Reason != "" {
		fmt.Fprintf(&b, "\nUzasadnienie:\n%s\n", req.Reason)
	}
	if req.RequestedBy != "" {
		fmt.Fprintf(&b, "\nZgłaszający: %s\n", req.RequestedBy)
	}

	return n.mailer.Send(ctx, mailer.Message{
		To:      n.recipients.FactorChange,
		Subject: fmt.Sprintf("Zmiana współczynnika: %s (%.4g → %.4g)", name, req.CurrentFactor, req.ProposedFactor),
		Body:    b.String(),
	})
}

func (n *Notifier) PriceError(ctx context.Context, r PriceErrorReport) error {
	if r.ProducerSlug == "" || r.ProductName == "" {
		return fmt.Errorf("%w: producerSlug and productName are required", ErrInvalidRequest)
	}
	name := firstNonEmpty(r.ProducerName, r.ProducerSlug)

	var b strings.Builder
	fmt.Fprintf(&b, "Zgłoszenie błędnej ceny\n\n")
	fmt.Fprintf(&b, "Producent: %s\n", name)
	if r.Category != "" {
		fmt.Fprintf(&b, "Kategoria: %s\n", r.Category)
	}
	fmt.Fprintf(&b, "Produkt: %s\n", r.ProductName)
	fmt.Fprintf(&b, "Wyświetlana cena: %.2f\n", r.DisplayedPrice)
	if r.ExpectedPrice != nil {
		fmt.Fprintf(&b, "Oczekiwana cena: %.2f\n", *r.ExpectedPrice)
	}
	if r.Comment != "" {
		fmt.Fprintf(&b, "\nKomentarz:\n%s\n", r.Comment)
	}
	if r.Reporter != "" {
		fmt.Fprintf(&b, "\nZgłaszający: %s\n", r.Reporter)
	}

	return n.mailer.Send(ctx, mailer.Message{
		To:      n.recipients.PriceError,
		ReplyTo: r.ReporterEmail,
		Subject: fmt.Sprintf("Błąd ceny: %s / %s", name, r.ProductName),
		Body:    b.String(),
	})
}

// ScheduleCreated announces a newly scheduled change.
func (n *Notifier) ScheduleCreated(ctx context.Context, c *models.ScheduledChange) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Zaplanowano zmianę cen\n\n")
	fmt.Fprintf(&b, "Producent: %s\n", c.ProducerName)
	fmt.Fprintf(&b, "Data wejścia w życie: %s\n", c.ScheduledDate)
	fmt.Fprintf(&b, "Liczba pozycji: %d\n", c.Summary.ItemCount)
	fmt.Fprintf(&b, "Średnia zmiana: %.2f%% (od %.2f%% do %.2f%%)\n",
		c.Summary.AverageChange, c.Summary.MinChange, c.Summary.MaxChange)
	if c.CreatedBy != "" {
		fmt.Fprintf(&b, "Utworzył: %s\n", c.CreatedBy)
	}
	writeItems(&b, c.Changes)

	return n.mailer.Send(ctx, mailer.Message{
		To:      n.recipients.Schedule,
		Subject: fmt.Sprintf("Zaplanowana zmiana cen: %s od %s", c.ProducerName, c.ScheduledDate),
		Body:    b.String(),
	})
}

// ScheduleApplied reports a change written into the catalog.
func (n *Notifier) ScheduleApplied(ctx context.Context, producerName, scheduledDate string, applied, skipped int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Zmiana cen została wprowadzona\n\n")
	fmt.Fprintf(&b, "Producent: %s\n", producerName)
	fmt.Fprintf(&b, "Data: %s\n", scheduledDate)
	fmt.Fprintf(&b, "Zaktualizowane pozycje: %d\n", applied)
	if skipped > 0 {
		fmt.Fprintf(&b, "Pominięte pozycje (nie znaleziono w cenniku): %d\n", skipped)
	}

	return n.mailer.Send(ctx, mailer.Message{
		To:      n.recipients.Schedule,
		Subject: fmt.Sprintf("Wprowadzono zmianę cen: %s", producerName),
		Body:    b.String(),
	})
}

const maxListedItems = 50

func writeItems(b *strings.Builder, items []models.ChangeItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\nPozycje:\n")
	for i, it := range items {
		if i == maxListedItems {
			fmt.Fprintf(b, "... oraz %d kolejnych\n", len(items)-maxListedItems)
			break
		}
		label := it.Category + " / " + it.Element
		if it.Dimension != "" {
			label += " / " + it.Dimension
		}
		if it.PriceGroup != "" {
			label += " / " + it.PriceGroup
		}
		fmt.Fprintf(b, "- %s: %.2f → %.2f (%+.2f%%)\n", label, it.OldPrice, it.NewPrice, it.PercentChange)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
