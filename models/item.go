package models

// Item is a tradeable good. Owner holds the trader's name, not a reference.
type Item struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement;column:item_id" bson:"_id" json:"itemId"`
	Name        string `gorm:"size:191;index:idx_items_name_owner,priority:1" bson:"name" json:"name"`
	Description string `gorm:"type:text" bson:"description" json:"description"`
	ImgURL      string `gorm:"column:img_url;size:512" bson:"imgUrl" json:"imgUrl"`
	Owner       string `gorm:"size:191;index:idx_items_name_owner,priority:2;index" bson:"owner" json:"owner"`
}

// All lists the persisted models in migration order.
func All() []interface{} {
	return []interface{}{&Item{}, &Trader{}, &Proposal{}}
}
