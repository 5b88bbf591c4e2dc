package finetunecmder

const usageGuide string = `# finetune

Turn a ChatGPT **conversations.json** export into a fine-tuning JSONL file.
Every message you wrote becomes one training example:

    {"messages": [{"role": "user", "content": "Write a blog post in my voice."}, {"role": "assistant", "content": " <your message>\n"}]}

## Usage

    finetune <input_file> <output_file> [flags]

## Flags

- ` + "`--max-tokens, -m`" + ` truncate each message to this many tokens (default 2048)
- ` + "`--no-remove-duplicates`" + ` keep exact duplicate messages
- ` + "`--errors, -e`" + ` where to log skipped content (default errors.jsonl, empty disables)
- ` + "`--instruction`" + ` the fixed user turn of every example
- ` + "`--encoding`" + ` tokenizer encoding (default cl100k_base)
- ` + "`--watch`" + ` re-run whenever the export changes

## More

- ` + "`finetune estimate <file.jsonl>`" + ` estimate the fine-tuning cost
- ` + "`finetune filter <in.jsonl> <out.jsonl>`" + ` keep only blog-style examples
- ` + "`finetune config list`" + ` show persistent settings
`
