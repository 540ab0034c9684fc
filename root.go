package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/HugeFrog24/bankdesk/config"
	"github.com/HugeFrog24/bankdesk/risk"
	"github.com/HugeFrog24/bankdesk/router"
)

type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "bankdesk",
		Short:         "Support desk services: face verification, query routing and risk scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(a.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			setupLogging(cfg.Log.Level, cfg.Log.Format)
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default ./config.yaml)")

	root.AddCommand(
		a.newFaceServerCmd(),
		a.newProcessServerCmd(),
		a.newProcessCmd(),
		a.newClassifyCmd(),
		a.newRiskCmd(),
	)
	return root
}

func setupLogging(level, format string) {
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	if strings.ToLower(format) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func (a *app) loadRouter() (*router.Router, error) {
	if a.cfg.Router.KeywordsFile == "" {
		return router.New(router.DefaultTable()), nil
	}
	table, err := router.LoadTable(a.cfg.Router.KeywordsFile)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d departments from %s", table.Len(), a.cfg.Router.KeywordsFile)
	return router.New(table), nil
}

func (a *app) loadRiskModel() (*risk.Model, error) {
	if a.cfg.Risk.ModelFile == "" {
		return risk.DefaultModel()
	}
	return risk.LoadModel(a.cfg.Risk.ModelFile)
}
