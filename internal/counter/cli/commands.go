package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bus-ticketing/internal/counter"
	"bus-ticketing/internal/counter/tui"
	"bus-ticketing/internal/dto/response"
	"bus-ticketing/internal/seatmap"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ==================== SESSION ====================

func (a *app) loginCmd() *cobra.Command {
	var code, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if code == "" {
				if code, err = promptText("Counter code", validateRequired); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptPassword("Password"); err != nil {
					return err
				}
			}

			creds, err := a.client.Login(cmd.Context(), code, password)
			if err != nil {
				a.log.Warn("Login failed", zap.String("counter_code", code), zap.Error(err))
				return fmt.Errorf("login: %w", err)
			}
			if err := saveCredentials(a.v, a.configPath, creds); err != nil {
				return err
			}

			a.log.Info("Logged in", zap.String("counter_code", creds.CounterCode))
			a.printf("Logged in as %s (%s) until %s\n", creds.CounterCode, creds.Role, creds.ExpiresAt.Local().Format(time.DateTime))
			return nil
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "counter code")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(); err == nil {
				if err := a.client.Logout(cmd.Context()); err != nil {
					a.log.Warn("Server logout failed", zap.Error(err))
				}
			}
			if err := saveCredentials(a.v, a.configPath, nil); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := a.requireLogin()
			if err != nil {
				return err
			}
			profile, err := a.client.CheckCounter(cmd.Context(), creds.CounterCode)
			if err != nil {
				return err
			}
			renderCounter(a.out, profile)
			return nil
		},
	}
}

// ==================== FLEET ====================

func (a *app) busesCmd() *cobra.Command {
	var page, perPage int
	var all bool

	cmd := &cobra.Command{
		Use:   "buses",
		Short: "List buses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(); err != nil {
				return err
			}
			buses, err := a.client.ListBuses(cmd.Context(), page, perPage, !all)
			if err != nil {
				return err
			}
			renderBuses(a.out, buses)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "buses per page")
	cmd.Flags().BoolVar(&all, "all", false, "include inactive buses")
	return cmd
}

func (a *app) routesCmd() *cobra.Command {
	var page, perPage int
	var search string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(); err != nil {
				return err
			}
			routes, err := a.client.ListRoutes(cmd.Context(), page, perPage, search)
			if err != nil {
				return err
			}
			renderRoutes(a.out, routes)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "routes per page")
	cmd.Flags().StringVar(&search, "search", "", "filter by name or code")
	return cmd
}

// ==================== BOOKING ====================

type tripFlags struct {
	busID string
	date  string
}

func (f *tripFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.busID, "bus", "", "bus id")
	cmd.Flags().StringVar(&f.date, "date", time.Now().Format(response.DateLayout), "travel date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("bus")
}

// openSession loads the bus and opens a counter session on it.
func (a *app) openSession(cmd *cobra.Command, f tripFlags) (*counter.Session, *response.BusDetailResponse, error) {
	creds, err := a.requireLogin()
	if err != nil {
		return nil, nil, err
	}

	bus, err := a.client.GetBus(cmd.Context(), f.busID)
	if err != nil {
		return nil, nil, fmt.Errorf("load bus: %w", err)
	}

	session := counter.NewSession(a.client, counter.Identity{CounterCode: creds.CounterCode, Role: creds.Role}, a.log)
	trip := counter.Trip{
		BusID:       bus.ID,
		Name:        bus.Name,
		BusNumber:   bus.BusNumber,
		CoachLayout: bus.CoachLayout,
		Fare:        bus.Fare,
	}
	if err := session.Open(cmd.Context(), trip, f.date); err != nil {
		return nil, nil, err
	}
	return session, bus, nil
}

func (a *app) seatsCmd() *cobra.Command {
	var f tripFlags

	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Show the seat map of a bus on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, bus, err := a.openSession(cmd, f)
			if err != nil {
				return err
			}
			layout, err := session.Layout()
			if err != nil {
				return err
			}
			a.printf("%s (%s) on %s, %s layout\n", bus.Name, bus.BusNumber, f.date, layout.Catalog)
			renderSeatMap(a.out, layout)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) bookCmd() *cobra.Command {
	var f tripFlags
	var perSeat bool

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Pick seats and book them for one passenger",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, bus, err := a.openSession(cmd, f)
			if err != nil {
				return err
			}
			if perSeat {
				session.SetMode(counter.ModePerSeat)
			}

			confirmed, err := tui.Run(cmd.Context(), session)
			if err != nil {
				return err
			}
			if !confirmed {
				a.printf("Booking abandoned\n")
				return nil
			}

			var points []string
			if bus.Route != nil {
				points = bus.Route.BoardingPoints
			}
			passenger, err := promptPassenger(points)
			if err != nil {
				return err
			}
			rawDiscount, err := promptText("Discount", validateAmount)
			if err != nil {
				return err
			}
			discount := parseAmount(rawDiscount)

			quote, err := session.Quote(discount)
			if err != nil {
				return err
			}
			a.printf("Seats: %s\n", joinSeats(session.Selected()))
			renderQuote(a.out, quote)
			if !promptConfirm("Confirm booking") {
				a.printf("Booking abandoned\n")
				return nil
			}

			res, err := session.Submit(cmd.Context(), passenger, discount)
			if err != nil {
				var vErr *seatmap.ValidationError
				if errors.As(err, &vErr) {
					for field, msg := range vErr.Fields {
						a.printf("  %s: %s\n", field, msg)
					}
				}
				return err
			}

			renderSubmitResult(a.out, res)
			if res.RefreshErr != nil {
				a.printf("Could not refresh seat map: %v\n", res.RefreshErr)
			}
			if !res.Complete() {
				return fmt.Errorf("%d of %d seats were not booked", len(res.Failed()), len(res.Seats))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&perSeat, "per-seat", false, "send one request per seat and report each")
	return cmd
}

func (a *app) cancelCmd() *cobra.Command {
	var f tripFlags
	var seat string
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the booking on a seat (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _, err := a.openSession(cmd, f)
			if err != nil {
				return err
			}

			pending, err := session.RequestCancel(seatmap.SeatID(seat))
			if err != nil {
				return err
			}

			label := fmt.Sprintf("Cancel seat %s booked for %s (%s)", pending.Seat, pending.PassengerName, pending.Mobile)
			if !yes && !promptConfirm(label) {
				session.DeclineCancel()
				a.printf("Kept booking %s\n", pending.BookingID)
				return nil
			}

			if err := session.ConfirmCancel(cmd.Context()); err != nil && !errors.Is(err, counter.ErrStaleSnapshot) {
				return err
			}
			a.printf("Cancelled booking %s, seat %s is free\n", pending.BookingID, pending.Seat)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&seat, "seat", "", "seat number, e.g. A1")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("seat")
	return cmd
}

func (a *app) ticketCmd() *cobra.Command {
	var bookingID, out string

	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Download the PDF e-ticket of a booking",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireLogin(); err != nil {
				return err
			}

			pdf, name, err := a.client.DownloadTicket(cmd.Context(), bookingID)
			if err != nil {
				return err
			}
			if name == "" {
				name = "ETICKET_" + bookingID + ".pdf"
			}
			path := out
			if path == "" {
				path = name
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, name)
			}

			if err := os.WriteFile(path, pdf, 0644); err != nil {
				return fmt.Errorf("write ticket: %w", err)
			}
			a.printf("Saved %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&bookingID, "booking", "", "booking id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file or directory")
	_ = cmd.MarkFlagRequired("booking")
	return cmd
}
