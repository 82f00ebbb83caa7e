// Command seatreport prints the seat usage of every offering in a term.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/myuniba/myuniba/internal/app/auth"
	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/app/repositories"
	"github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/config"
	"github.com/myuniba/myuniba/internal/db"
	"github.com/myuniba/myuniba/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration")
	term := flag.String("term", "", "term to report on, e.g. 20251")
	flag.Parse()

	if err := run(*configPath, models.Term(*term), os.Stdout); err != nil {
		color.Red("seatreport: %v", err)
		os.Exit(1)
	}
}

func run(configPath string, term models.Term, out io.Writer) error {
	if err := term.Validate(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Configure(logger.Config{Level: logger.WarnLevel, Pretty: true})

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repos := repositories.NewRepositories(database.Pool)
	offerings := services.NewOfferingService(repos.OfferingRepository, auth.NewAuthorizationService(repos.OfferingRepository, nil))

	report, err := offerings.SeatReport(ctx, term)
	if err != nil {
		return err
	}

	color.New(color.FgCyan).Fprintf(out, "\n=== Seat report %s ===\n", term)
	renderSeatReport(out, report)
	return nil
}

// renderSeatReport writes one row per offering; full sections are red, nearly full ones yellow.
func renderSeatReport(out io.Writer, offerings []*models.Offering) {
	full := color.New(color.FgRed).SprintFunc()
	low := color.New(color.FgYellow).SprintFunc()

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Course", "Name", "Section", "Instructor", "Capacity", "Taken", "Remaining"})

	var capacity, taken int
	for _, o := range offerings {
		code, name, instructor := "", "", ""
		if o.Course != nil {
			code, name = o.Course.Code, o.Course.Name
		}
		if o.Instructor != nil {
			instructor = o.Instructor.FullName
		}

		remaining := strconv.Itoa(o.SeatsRemaining)
		switch {
		case o.SeatsRemaining == 0:
			remaining = full(remaining)
		case o.SeatsRemaining*10 < o.Capacity:
			remaining = low(remaining)
		}

		table.Append([]string{
			code,
			name,
			o.SectionLabel,
			instructor,
			strconv.Itoa(o.Capacity),
			strconv.Itoa(o.Capacity - o.SeatsRemaining),
			remaining,
		})
		capacity += o.Capacity
		taken += o.Capacity - o.SeatsRemaining
	}

	table.SetFooter([]string{"", "", "", "Total", strconv.Itoa(capacity), strconv.Itoa(taken), strconv.Itoa(capacity - taken)})
	table.Render()
	fmt.Fprintf(out, "%d offerings\n", len(offerings))
}
