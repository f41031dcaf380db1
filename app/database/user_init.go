package database

import (
	"errors"
	"fmt"

	"setting-center/app/auth"
	"setting-center/app/config"
	"setting-center/app/logger"
	"setting-center/app/model"

	"gorm.io/gorm"
)

// InitAdminUser 根据配置创建或同步管理员账户
func InitAdminUser(db *gorm.DB, cfg *config.Config, log *logger.Logger) error {
	if cfg.Server.Username == "" || cfg.Server.Password == "" {
		log.Warnf("配置文件中未设置管理员账户，跳过管理员初始化")
		return nil
	}

	var existingAdmin model.User
	err := db.Where("is_admin = ?", true).First(&existingAdmin).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询管理员账户失败: %w", err)
	}

	if err == nil {
		needUpdate := false

		if existingAdmin.Username != cfg.Server.Username {
			var conflictUser model.User
			if db.Where("username = ? AND id != ?", cfg.Server.Username, existingAdmin.ID).First(&conflictUser).Error == nil {
				return fmt.Errorf("用户名 '%s' 已被其他用户使用，无法更新管理员用户名", cfg.Server.Username)
			}
			log.Infof("管理员用户名从 '%s' 更新为 '%s'", existingAdmin.Username, cfg.Server.Username)
			existingAdmin.Username = cfg.Server.Username
			needUpdate = true
		}

		if !auth.VerifyPassword(cfg.Server.Password, existingAdmin.Password) {
			hash, err := auth.HashPassword(cfg.Server.Password)
			if err != nil {
				return fmt.Errorf("哈希密码失败: %w", err)
			}
			existingAdmin.Password = hash
			needUpdate = true
			log.Infof("管理员 '%s' 密码已更新", cfg.Server.Username)
		}

		if !existingAdmin.IsActive || !existingAdmin.IsStaff {
			existingAdmin.IsActive = true
			existingAdmin.IsStaff = true
			needUpdate = true
		}

		if needUpdate {
			if err := db.Save(&existingAdmin).Error; err != nil {
				return fmt.Errorf("更新管理员账户失败: %w", err)
			}
		}
		return nil
	}

	hash, err := auth.HashPassword(cfg.Server.Password)
	if err != nil {
		return fmt.Errorf("哈希密码失败: %w", err)
	}

	admin := model.User{
		Username: cfg.Server.Username,
		Password: hash,
		Email:    "admin@setting-center.local",
		IsActive: true,
		IsStaff:  true,
		IsAdmin:  true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建管理员账户失败: %w", err)
	}

	log.Infof("管理员账户 '%s' 创建成功", cfg.Server.Username)
	return nil
}
