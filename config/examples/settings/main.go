package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lgc202/openai-kit/config"
)

func main() {
	cfg, err := config.LoadSettings("./openai.yaml", nil)
	if err != nil {
		log.Fatal(err)
	}

	s := cfg.Get()
	fmt.Printf("对话模型: %s (temperature=%.2f, max_tokens=%d)\n", s.ChatModel, s.Temperature, s.MaxTokens)
	fmt.Printf("转写模型: %s (language=%s)\n", s.TranscriptionModel, s.Language)

	cfg.OnChange(func(old, new config.Settings) {
		if old.ChatModel != new.ChatModel {
			fmt.Printf("对话模型变更: %s -> %s\n", old.ChatModel, new.ChatModel)
		}
		if old.LogLevel != new.LogLevel {
			fmt.Printf("日志级别变更: %s -> %s\n", old.LogLevel, new.LogLevel)
		}
	})

	fmt.Println("修改 openai.yaml 观察热更新，Ctrl+C 退出")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
