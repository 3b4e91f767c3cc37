package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-digger/internal/backup"
	"github.com/hazadus/go-digger/internal/s3"
)

// createBackupCommand создает команду backup с привязкой к экземпляру приложения
func (app *Application) createBackupCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload favorites and history snapshots to S3",
		Long:  `Serialize favorites and listening history and upload timestamped snapshots to the configured S3 bucket.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.backupLibrary(ctx)
		},
	}
}

func (app *Application) backupLibrary(ctx context.Context) error {
	if app.Config.AwsBucketName == "" {
		return fmt.Errorf("бакет S3 не настроен: заполните aws_bucket_name в %s", defaultConfigPath)
	}

	uploader, err := s3.NewUploader(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
	if err != nil {
		return fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}

	fmt.Printf("📤 Копируем библиотеку в бакет %s...\n", app.Config.AwsBucketName)

	service := backup.NewService(uploader, app.Library)
	result, err := service.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println("✅ Резервная копия создана!")
	fmt.Printf("   Избранное: %s (%s)\n", result.FavoritesURL, backup.FormatFileSize(result.FavoritesSize))
	fmt.Printf("   История: %s (%s)\n", result.RecentURL, backup.FormatFileSize(result.RecentSize))
	return nil
}
