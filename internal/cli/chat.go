package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/lgc202/openai-kit/config"
	"github.com/lgc202/openai-kit/openai"
)

type chatOptions struct {
	system      string
	model       string
	temperature float64
	maxTokens   int
	interactive bool
	output      string
	usage       bool
}

func newChatCommand(a *app) *cobra.Command {
	o := &chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Request a chat completion",
		Long: `Send a message and print the reply.

With --interactive, every line read from stdin is sent as a user message and the
replies are kept in the conversation. Changes to chat_model, temperature, max_tokens
and log_level in the config file apply from the next turn.`,
		Example: `  openai chat "What is a goroutine?"
  openai chat --system "Answer in French" --model gpt-4o-mini hello
  openai chat --interactive --config openai.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(o.output); err != nil {
				return err
			}
			if len(args) == 0 && !o.interactive {
				return fmt.Errorf("nothing to send: pass a message or use --interactive")
			}
			return runChat(cmd, a, o, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.system, "system", "", "system message placed first in the conversation")
	f.StringVar(&o.model, "model", "", "model (default chat_model from config)")
	f.Float64Var(&o.temperature, "temperature", openai.DefaultTemperature, "sampling temperature (default temperature from config)")
	f.IntVar(&o.maxTokens, "max-tokens", openai.DefaultMaxTokens, "maximum tokens to generate (default max_tokens from config)")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "read further messages from stdin")
	f.StringVarP(&o.output, "output", "o", outputText, "output format: text, json or yaml")
	f.BoolVar(&o.usage, "usage", false, "print token usage after each reply (text output)")
	return cmd
}

// requestOptions 合并配置与命令行参数，参数显式指定时优先
func (o *chatOptions) requestOptions(cmd *cobra.Command, s config.Settings) []openai.RequestOption {
	model, temperature, maxTokens := s.ChatModel, s.Temperature, s.MaxTokens
	if o.model != "" {
		model = o.model
	}
	if cmd.Flags().Changed("temperature") {
		temperature = o.temperature
	}
	if cmd.Flags().Changed("max-tokens") {
		maxTokens = o.maxTokens
	}
	return []openai.RequestOption{
		openai.WithModel(model),
		openai.WithTemperature(temperature),
		openai.WithMaxTokens(maxTokens),
	}
}

func runChat(cmd *cobra.Command, a *app, o *chatOptions, first string) error {
	ctx := cmd.Context()
	client, err := a.newClient(a.cfg.Get())
	if err != nil {
		return err
	}
	chat := client.Chat
	if o.system != "" {
		chat.AddSystemMessage(o.system)
	}

	if a.cfg.Path() != "" {
		a.cfg.OnChange(func(old, new config.Settings) {
			if old.ChatModel != new.ChatModel || old.Temperature != new.Temperature || old.MaxTokens != new.MaxTokens {
				a.logger.Info("config reloaded",
					"chat_model", new.ChatModel,
					"temperature", new.Temperature,
					"max_tokens", new.MaxTokens,
				)
			}
		})
	}

	if first != "" {
		if err := a.chatTurn(ctx, cmd, o, chat, first); err != nil {
			return err
		}
	}
	if !o.interactive {
		return nil
	}

	sc := bufio.NewScanner(a.in)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for {
		fmt.Fprint(a.errOut, "> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}
		if err := a.chatTurn(ctx, cmd, o, chat, line); err != nil {
			if !errors.Is(err, errRejected) {
				return err
			}
			// 交互模式下被拒绝的请求不终止会话
			continue
		}
	}
}

func (a *app) chatTurn(ctx context.Context, cmd *cobra.Command, o *chatOptions, chat *openai.ChatClient, msg string) error {
	chat.AddUserMessage(msg)
	resp, err := chat.Completion(ctx, o.requestOptions(cmd, a.cfg.Get())...)
	if err != nil {
		return err
	}
	if resp == nil {
		return errRejected
	}
	chat.AddResponse(resp)

	return render(a.out, o.output, resp, func(w io.Writer) error {
		fmt.Fprintln(w, resp.FirstText())
		if o.usage && resp.Usage != nil {
			fmt.Fprintln(w, usageTable(resp.Model, resp.Usage))
		}
		return nil
	})
}

func usageTable(model string, u *openai.Usage) string {
	table := uitable.New()
	table.RightAlign(0)
	table.Separator = " "
	table.AddRow("model:", model)
	table.AddRow("prompt tokens:", u.PromptTokens)
	table.AddRow("completion tokens:", u.CompletionTokens)
	table.AddRow("total tokens:", u.TotalTokens)
	return table.String()
}
