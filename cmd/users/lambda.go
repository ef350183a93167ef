package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/deppfellow/users-api/internal/config"
)

func newLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve API Gateway proxy events in the AWS Lambda runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			a.server.Logger.Info().
				Str("table", cfg.AWS.TableName).
				Str("region", cfg.AWS.Region).
				Str("store", cfg.Store.Driver).
				Msg("starting lambda handler")

			// lambda.Start never returns.
			lambda.Start(a.handlers.Lambda.Handle)
			return nil
		},
	}
}
