package cmd

import (
	"fmt"

	"imagequeue/config"
	"imagequeue/storage"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage imagequeue preferences",
	Long:  `Get and set the API key and image generation preferences (keys: api_key, image_quality, image_size)`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a preference value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		st, err := openStorage()
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			return
		}

		cfg := config.Load(st)
		value, err := cfg.Get(key)
		if err != nil {
			fmt.Printf("Error getting config value: %v\n", err)
			return
		}

		fmt.Printf("%s = %s\n", key, value)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a preference value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		key, value := args[0], args[1]

		st, err := openStorage()
		if err != nil {
			fmt.Printf("Error opening storage: %v\n", err)
			return
		}

		cfg := config.Load(st)
		if err := cfg.Set(key, value); err != nil {
			fmt.Printf("Error setting config value: %v\n", err)
			return
		}

		if err := cfg.Save(st); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Printf("Set %s = %s\n", key, value)
	},
}

func openStorage() (storage.Store, error) {
	dir, err := storage.DefaultDir()
	if err != nil {
		return nil, err
	}
	return storage.NewFileStore(dir)
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
