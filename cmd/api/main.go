// @title           Project Planner API
// @version         1.0
// @description     프로젝트 문서 저장소 및 동기화 API
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "project-planner-api/docs" // Swagger docs import
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "planner",
	Short:         "Project document store and synchronization service",
	Long:          `Serves the project document API, persists snapshots and fans out sync events to connected clients.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the legacy project file into the snapshot and exit",
	RunE:  runMigrate,
}

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Load the snapshot and write it back out",
	RunE:  runFlush,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "path to the yaml config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(flushCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
