// Command login authorizes the MTProto user session interactively and writes
// the session file the service binary uses. Run it once per deployment.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"

	"telegram-group-transfer/internal/config"
)

// terminalAuth prompts on stdin for the phone, login code and 2FA password.
type terminalAuth struct {
	phone string
	in    *bufio.Reader
}

func (a terminalAuth) Phone(_ context.Context) (string, error) {
	if a.phone != "" {
		return a.phone, nil
	}
	return a.prompt("Phone number (international format): ")
}

func (a terminalAuth) Code(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	return a.prompt("Login code: ")
}

func (a terminalAuth) Password(_ context.Context) (string, error) {
	return a.prompt("2FA password: ")
}

func (a terminalAuth) AcceptTermsOfService(_ context.Context, _ tg.HelpTermsOfService) error {
	return nil
}

func (a terminalAuth) SignUp(_ context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("signing up new accounts is not supported")
}

func (a terminalAuth) prompt(label string) (string, error) {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	phone := flag.String("phone", "", "phone number, prompted if empty")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client := telegram.NewClient(cfg.Telegram.APIID, cfg.Telegram.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.Telegram.SessionFile},
	})

	ctx := context.Background()
	err = client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			terminalAuth{phone: *phone, in: bufio.NewReader(os.Stdin)},
			auth.SendCodeOptions{},
		)
		if err := client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("auth flow: %w", err)
		}

		me, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("whoami: %w", err)
		}
		fmt.Printf("authorized as %s %s (@%s), session saved to %s\n",
			me.FirstName, me.LastName, me.Username, cfg.Telegram.SessionFile)
		return nil
	})
	if err != nil {
		log.Fatalf("login: %v", err)
	}
}
