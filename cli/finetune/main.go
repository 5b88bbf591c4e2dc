package main

import (
	"os"

	finetunecmder "github.com/0xsalt/chatgpt-generate-finetune-jsonl/cmd/finetune"
)

func main() {
	cmd := finetunecmder.NewFinetuneCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
