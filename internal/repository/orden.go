package repository

import (
	"gorm.io/gorm"
)

// nextOrden 返回父节点下的下一个 orden（从 1 开始连续）
func nextOrden(tx *gorm.DB, m interface{}, parentColumn string, parentID uint) (int, error) {
	var max int
	err := tx.Model(m).
		Where(parentColumn+" = ?", parentID).
		Select("COALESCE(MAX(orden), 0)").
		Scan(&max).Error
	return max + 1, err
}

// closeOrdenGap 删除后把排在后面的兄弟节点 orden 各减 1
func closeOrdenGap(tx *gorm.DB, m interface{}, parentColumn string, parentID uint, removed int) error {
	return tx.Model(m).
		Where(parentColumn+" = ? AND orden > ?", parentID, removed).
		UpdateColumn("orden", gorm.Expr("orden - 1")).Error
}
