package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"setting-center/app/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ctlOpts struct {
	server     string
	username   string
	password   string
	noValidate bool
}

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "通过 HTTP 接口管理运行中的设置中心",
}

// connect 登录并返回客户端，账号未指定时使用配置中的管理员
func connect() (*client.Client, error) {
	username := ctlOpts.username
	if username == "" {
		username = viper.GetString("server.username")
	}
	password := ctlOpts.password
	if password == "" {
		password = viper.GetString("server.password")
	}

	c := client.New(ctlOpts.server)
	if err := c.Login(username, password); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func runCtl(fn func(c *client.Client) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(c)
	}
}

var ctlGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "查看设置值",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCtl(func(c *client.Client) error {
			detail, err := c.GetValue(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) = %v\n", detail.Key, detail.ValueType, detail.Value)
			return nil
		})(cmd, args)
	},
}

var ctlSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "更新设置值，值为 JSON 时按 JSON 发送",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value any = args[1]
		var decoded any
		if err := json.Unmarshal([]byte(args[1]), &decoded); err == nil {
			value = decoded
		}
		return runCtl(func(c *client.Client) error {
			if err := c.SetValue(args[0], value, !ctlOpts.noValidate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s 已更新\n", args[0])
			return nil
		})(cmd, args)
	},
}

var ctlDictCmd = &cobra.Command{
	Use:   "dict",
	Short: "输出启用设置的键值字典",
	RunE: runCtl(func(c *client.Client) error {
		dict, err := c.Dictionary()
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(dict))
		for k := range dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stdout, "%s = %v\n", k, dict[k])
		}
		return nil
	}),
}

var ctlResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "所有设置恢复默认值",
	RunE: runCtl(func(c *client.Client) error {
		n, err := c.ResetDefaults()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "已重置 %d 项设置\n", n)
		return nil
	}),
}

var ctlFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "清空服务端设置缓存",
	RunE: runCtl(func(c *client.Client) error {
		if err := c.FlushCache(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "缓存已清空")
		return nil
	}),
}

func init() {
	ctlCmd.PersistentFlags().StringVar(&ctlOpts.server, "server", "http://127.0.0.1:5000", "设置中心地址")
	ctlCmd.PersistentFlags().StringVarP(&ctlOpts.username, "username", "u", "", "登录用户名")
	ctlCmd.PersistentFlags().StringVarP(&ctlOpts.password, "password", "p", "", "登录密码")
	ctlSetCmd.Flags().BoolVar(&ctlOpts.noValidate, "no-validate", false, "跳过校验规则")

	ctlCmd.AddCommand(ctlGetCmd, ctlSetCmd, ctlDictCmd, ctlResetCmd, ctlFlushCmd)
	rootCmd.AddCommand(ctlCmd)
}
