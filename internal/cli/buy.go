package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/topup"
	"github.com/spf13/cobra"
)

var buyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy a credit package interactively",
	RunE:  runBuy,
}

func init() {
	buyCmd.Flags().String("user", "", "User id (required)")
	buyCmd.Flags().String("email", "", "User email (required)")
	_ = buyCmd.MarkFlagRequired("user")
	_ = buyCmd.MarkFlagRequired("email")
}

func runBuy(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	email, _ := cmd.Flags().GetString("email")

	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer func() { _ = env.logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	catalog, err := env.client.Packages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	balance, err := env.client.Balance(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}

	modal := topup.NewModal(env.client, catalog, topup.User{ID: userID, Email: email}, balance,
		topup.WithVerifyDelay(env.cfg.Topup.VerifyDelay),
		topup.WithAutoCloseDelay(env.cfg.Topup.AutoCloseDelay),
		topup.WithLogger(env.logger))

	return newSession(modal, cmd.InOrStdin(), cmd.OutOrStdout()).run(ctx)
}

// session renders the modal on a terminal and feeds it one command per line.
type session struct {
	modal *topup.Modal
	in    *bufio.Scanner
	out   io.Writer
}

func newSession(modal *topup.Modal, in io.Reader, out io.Writer) *session {
	return &session{modal: modal, in: bufio.NewScanner(in), out: out}
}

func (s *session) run(ctx context.Context) error {
	for {
		view := s.modal.View()
		s.render(view)

		switch view.State {
		case topup.StateSuccess:
			s.waitClosed(ctx)
			return nil
		case topup.StateCancelled:
			fmt.Fprintln(s.out, "Top-up cancelled.")
			return nil
		}

		line, ok := s.read()
		if !ok {
			// input closed: leave the way the close button would
			_ = s.modal.RequestCancel()
			_ = s.modal.ConfirmCancel()
			continue
		}

		if err := s.handle(ctx, view, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(s.out, "! %s\n", err)
		}
	}
}

func (s *session) handle(ctx context.Context, view topup.View, line string) error {
	if line == "q" && view.State != topup.StateCancelRequested {
		return s.modal.RequestCancel()
	}

	switch view.State {
	case topup.StateSelectingPackage:
		id, err := strconv.Atoi(line)
		if err != nil {
			return errors.New("enter a package id")
		}
		return s.modal.Select(id)
	case topup.StateConfirmingOrder:
		switch line {
		case "c", "y":
			fmt.Fprintln(s.out, "Creating payment...")
			return s.modal.Confirm(ctx)
		case "b":
			return s.modal.Back()
		}
	case topup.StateAwaitingPayment:
		switch line {
		case "p":
			fmt.Fprintln(s.out, "VERIFYING...")
			return s.modal.MarkPaid(ctx)
		case "b":
			return s.modal.Back()
		case "r":
			return s.modal.Restart()
		}
	case topup.StateCancelRequested:
		switch line {
		case "y", "q":
			return s.modal.ConfirmCancel()
		case "n":
			return s.modal.AbortCancel()
		}
	}

	return fmt.Errorf("unknown command %q", line)
}

func (s *session) render(view topup.View) {
	if view.Notice.Kind != topup.NoticeNone {
		prefix := "*"
		if view.Notice.Kind == topup.NoticeError {
			prefix = "!"
		}
		fmt.Fprintf(s.out, "%s %s\n", prefix, view.Notice.Message)
	}

	switch view.State {
	case topup.StateSelectingPackage:
		fmt.Fprintf(s.out, "\nTOP-UP CREDITS  (balance: %d)\n", view.Balance)
		for _, p := range view.Packages {
			fmt.Fprintf(s.out, "  [%d] %-14s %4d Credits  ฿%s\n", p.ID, p.Label, p.Credits, p.Price.StringFixed(2))
		}
		fmt.Fprint(s.out, "Select package (q to close): ")
	case topup.StateConfirmingOrder:
		fmt.Fprintf(s.out, "\nCONFIRM ORDER\nYou are purchasing %d Credits for ฿%s\n",
			view.Selected.Credits, view.Selected.Price.StringFixed(2))
		fmt.Fprint(s.out, "[c]onfirm  [b]ack  [q]uit: ")
	case topup.StateAwaitingPayment:
		fmt.Fprintf(s.out, "\nSCAN TO PAY\n  QR:     %s\n  Order:  %s\n  Amount: ฿%s\n",
			view.Charge.QRCode, view.OrderID, view.Selected.Price.StringFixed(2))
		fmt.Fprint(s.out, "[p] I have paid  [b]ack  [r]estart  [q]uit: ")
	case topup.StateCancelRequested:
		fmt.Fprint(s.out, "Close this top-up? A payment made for it will still be credited. [y/n]: ")
	}
}

func (s *session) read() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}

	return strings.ToLower(strings.TrimSpace(s.in.Text())), true
}

func (s *session) waitClosed(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !s.modal.View().Closed {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
