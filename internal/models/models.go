package models

// The tables keep the column naming of the original shop database so the
// services stay compatible with an existing shop.db file.

type Product struct {
	ID           int     `gorm:"column:ProductID;primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"column:Name;not null"                      json:"name"`
	Description  string  `gorm:"column:Description"                        json:"description"`
	Price        float64 `gorm:"column:Price;not null"                     json:"price"`
	Stock        int     `gorm:"column:Stock;not null"                     json:"stock"`
	Category     string  `gorm:"column:Category"                           json:"category"`
	Image        string  `gorm:"column:Image"                              json:"image"`
	Barcode      string  `gorm:"column:Barcode"                            json:"barcode"`
	SerialNumber string  `gorm:"column:SerialNumber"                       json:"serialNumber"`
	Manufacturer string  `gorm:"column:Manufacturer"                       json:"manufacturer"`
	AdminID      int     `gorm:"column:AdminID"                            json:"adminId"`
}

func (Product) TableName() string { return "PRODUCT" }

type Cart struct {
	ID          int     `gorm:"column:CartID;primaryKey;autoIncrement" json:"id"`
	CustomerID  int     `gorm:"column:CustomerID;uniqueIndex;not null" json:"customer_id"`
	TotalAmount float64 `gorm:"column:TotalAmount"                     json:"total_amount"`
}

func (Cart) TableName() string { return "CART" }

type CartItem struct {
	ID        int `gorm:"column:CartItemID;primaryKey;autoIncrement" json:"id"`
	CartID    int `gorm:"column:CartID;index;not null"               json:"cart_id"`
	ProductID int `gorm:"column:ProductID;not null"                  json:"product_id"`
	Quantity  int `gorm:"column:Quantity;default:1"                  json:"quantity"`
}

func (CartItem) TableName() string { return "CART_ITEM" }

type Order struct {
	ID          int     `gorm:"column:OrderID;primaryKey;autoIncrement" json:"id"`
	Date        string  `gorm:"column:Date;not null"                    json:"date"`
	CustomerID  int     `gorm:"column:CustomerID;not null"              json:"customer_id"`
	TotalAmount float64 `gorm:"column:TotalAmount"                      json:"total_amount"`
	Status      string  `gorm:"column:Status"                           json:"status"`
}

func (Order) TableName() string { return "ORDERS" }

type OrderItem struct {
	ID        int `gorm:"column:OrderItemID;primaryKey;autoIncrement" json:"id"`
	OrderID   int `gorm:"column:OrderID;index;not null"               json:"order_id"`
	ProductID int `gorm:"column:ProductID;index;not null"             json:"product_id"`
	Quantity  int `gorm:"column:Quantity;default:1"                   json:"quantity"`
}

func (OrderItem) TableName() string { return "ORDERS_ITEM" }

// Authenticator maps a username to a password hash and to exactly one of
// CustomerID/AdminID. Which side is populated decides the account type.
type Authenticator struct {
	ID           int    `gorm:"column:AuthID;primaryKey;autoIncrement" json:"id"`
	UserName     string `gorm:"column:UserName;unique;not null"        json:"username"`
	PasswordHash string `gorm:"column:PasswordHash;not null"           json:"-"`
	CustomerID   *int   `gorm:"column:CustomerID"                      json:"customer_id,omitempty"`
	AdminID      *int   `gorm:"column:AdminID"                         json:"admin_id,omitempty"`
}

func (Authenticator) TableName() string { return "AUTHENTICATOR" }
