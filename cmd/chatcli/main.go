package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"quotebot/internal/chat"
	"quotebot/internal/config"
	"quotebot/internal/model"
	"quotebot/internal/observability"
	"quotebot/internal/quote"
)

var (
	botConfig string
	apiBase   string
	lang      string
)

var rootCmd = &cobra.Command{
	Use:   "chatcli",
	Short: "Talk to the quote assistant from the terminal",
	Long: `chatcli runs the same conversation engine as the chat service, reading one
message per line from stdin. Use /lang en|es to pin the language and /quit to exit.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		// o REPL só mostra avisos para não poluir a conversa
		log := observability.NewLogger(cfg.LogLevel, "console")
		if cfg.LogLevel != "debug" {
			log = log.Level(zerolog.WarnLevel)
		}

		path := botConfig
		if path == "" {
			path = cfg.BotConfigPath
		}
		bot, err := config.LoadBot(path)
		if err != nil {
			return fmt.Errorf("load bot config: %w", err)
		}

		envBase := apiBase
		if envBase == "" {
			envBase = cfg.QuoteAPIBase
		}
		var client *quote.Client
		if base := config.ResolveAPIBase(envBase, bot); base != "" {
			client = quote.NewClient(base, cfg.QuoteTimeout)
		}

		controller := chat.NewController(bot, quote.NewGateway(bot, client, quote.WithLogger(log)), log)
		return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), controller, lang)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&botConfig, "config", "c", "", "bot config YAML (default: $BOT_CONFIG)")
	rootCmd.Flags().StringVar(&apiBase, "api-base", "", "pricing service base URL (default: $QUOTE_API_BASE)")
	rootCmd.Flags().StringVar(&lang, "lang", "", "pin the conversation language (en|es)")
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer, controller *chat.Controller, pinned string) error {
	st := model.NewConversationState()
	if pinned != "" {
		st, _ = controller.SetLanguage(st, model.ParseLanguage(pinned))
	}

	say(out, controller.Greeting())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return nil
		case strings.HasPrefix(line, "/lang"):
			target := strings.TrimSpace(strings.TrimPrefix(line, "/lang"))
			next := st.Language.Other()
			if target != "" {
				next = model.ParseLanguage(target)
			}
			var msg model.Message
			st, msg = controller.SetLanguage(st, next)
			say(out, msg)
			continue
		}

		var msgs []model.Message
		st, msgs = controller.HandleTurn(ctx, st, line)
		for _, m := range msgs {
			say(out, m)
		}
	}
}

func say(out io.Writer, msg model.Message) {
	for _, l := range strings.Split(chat.PlainText(msg), "\n") {
		fmt.Fprintln(out, "bot> "+l)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
