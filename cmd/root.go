package cmd

import (
	"fmt"
	"os"

	"imagequeue/config"
	"imagequeue/llm"
	"imagequeue/shared/events"
	"imagequeue/storage"
	"imagequeue/store"
	"imagequeue/tui"

	"github.com/spf13/cobra"
)

var baseURL string

var rootCmd = &cobra.Command{
	Use:   "imagequeue",
	Short: "A chat interface for queued AI image generation",
	Long: `imagequeue is a terminal chat application that turns natural-language
requests into image-generation prompts and renders them sequentially through
the OpenAI API, keeping all chats and results on disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, err := storage.DefaultDir()
		if err != nil {
			fmt.Printf("Error locating storage directory: %v\n", err)
			os.Exit(1)
		}

		fileStore, err := storage.NewFileStore(dir)
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			os.Exit(1)
		}

		cfg := config.Load(fileStore)
		executor := llm.NewOpenAIExecutor(llm.Config{
			APIKey:  cfg.APIKey,
			BaseURL: baseURL,
		})

		eventBus := events.NewEventBus()
		chatStore := store.NewChatStore(fileStore, executor, eventBus)
		if chatStore.CurrentChat() == nil {
			chatStore.CreateChat()
		}

		if err := tui.StartTUI(chatStore, eventBus); err != nil {
			fmt.Printf("Error running interface: %v\n", err)
			os.Exit(1)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Override the OpenAI API base URL")

	rootCmd.AddCommand(configCmd)
}
