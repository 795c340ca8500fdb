package cmd

import (
	"context"
	"fmt"

	internalApp "github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dao"
	"github.com/haierkeys/note-share-service/internal/dto"
	"github.com/haierkeys/note-share-service/pkg/fileurl"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type userFlags struct {
	config   string
	username string
	email    string
	password string
}

func init() {
	userEnv := new(userFlags)

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management // 用户管理",
	}

	createCmd := &cobra.Command{
		Use:   "create -u username -e email -p password [-c config_file]",
		Short: "Create a user, ignoring user.register-is-enable // 创建用户，不受注册开关限制",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := createUser(cmd.Context(), userEnv)
			if err != nil {
				return err
			}
			fmt.Printf("user created: uid=%d username=%s\n", u.UID, u.Username)
			return nil
		},
	}

	fs := createCmd.Flags()
	fs.StringVarP(&userEnv.config, "config", "c", "", "config file")
	fs.StringVarP(&userEnv.username, "username", "u", "", "username")
	fs.StringVarP(&userEnv.email, "email", "e", "", "email")
	fs.StringVarP(&userEnv.password, "password", "p", "", "password")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	rootCmd.AddCommand(userCmd)
}

func createUser(ctx context.Context, env *userFlags) (*dto.UserDTO, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	path := env.config
	if path == "" {
		path = fileurl.FindFirst(configCandidates...)
	}
	if path == "" {
		return nil, errors.New("config file not found, run the service once or pass -c")
	}

	cfg, _, err := internalApp.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cfg.User.RegisterIsEnable = true
	if err := initStorageWithConfig(cfg); err != nil {
		return nil, err
	}

	lg := bootstrapLogger
	db, err := dao.NewDBEngineWithConfig(cfg.GetDatabaseConfig(), lg)
	if err != nil {
		return nil, err
	}

	a, err := internalApp.NewApp(cfg, lg, db)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := a.Shutdown(context.Background()); err != nil {
			lg.Warn("app shutdown", zap.Error(err))
		}
	}()

	return a.UserService.Register(ctx, &dto.UserCreateRequest{
		Email:           env.email,
		Username:        env.username,
		Password:        env.password,
		ConfirmPassword: env.password,
	})
}
