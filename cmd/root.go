package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// configDefault 内置默认配置，配置文件不存在时写出
var configDefault string

var rootCmd = &cobra.Command{
	Use:   "note-share-service",
	Short: "Note Share Service",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.HelpTemplate()
		cmd.Help()
	},
}

// Execute runs the root command with the embedded default config.
// Execute 使用内置默认配置执行根命令
func Execute(c string) {
	configDefault = c
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
