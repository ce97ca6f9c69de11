// Package seed builds the sample asset-management dataset and writes it to
// the stores the query engines read from.
package seed

import "time"

type Customer struct {
	CustomerID      int64     `parquet:"CustomerId"`
	CustomerCode    string    `parquet:"CustomerCode"`
	CustomerName    string    `parquet:"CustomerName"`
	Email           string    `parquet:"Email"`
	Phone           string    `parquet:"Phone"`
	BillingAddress1 string    `parquet:"BillingAddress1"`
	BillingCity     string    `parquet:"BillingCity"`
	BillingCountry  string    `parquet:"BillingCountry"`
	CreatedAt       time.Time `parquet:"CreatedAt"`
	UpdatedAt       time.Time `parquet:"UpdatedAt"`
	IsActive        bool      `parquet:"IsActive"`
}

type Vendor struct {
	VendorID     int64     `parquet:"VendorId"`
	VendorCode   string    `parquet:"VendorCode"`
	VendorName   string    `parquet:"VendorName"`
	Email        string    `parquet:"Email"`
	Phone        string    `parquet:"Phone"`
	AddressLine1 string    `parquet:"AddressLine1"`
	City         string    `parquet:"City"`
	Country      string    `parquet:"Country"`
	CreatedAt    time.Time `parquet:"CreatedAt"`
	UpdatedAt    time.Time `parquet:"UpdatedAt"`
	IsActive     bool      `parquet:"IsActive"`
}

type Site struct {
	SiteID       int64     `parquet:"SiteId"`
	SiteCode     string    `parquet:"SiteCode"`
	SiteName     string    `parquet:"SiteName"`
	AddressLine1 string    `parquet:"AddressLine1"`
	City         string    `parquet:"City"`
	Country      string    `parquet:"Country"`
	TimeZone     string    `parquet:"TimeZone"`
	CreatedAt    time.Time `parquet:"CreatedAt"`
	UpdatedAt    time.Time `parquet:"UpdatedAt"`
	IsActive     bool      `parquet:"IsActive"`
}

type Location struct {
	LocationID       int64     `parquet:"LocationId"`
	SiteID           int64     `parquet:"SiteId"`
	LocationCode     string    `parquet:"LocationCode"`
	LocationName     string    `parquet:"LocationName"`
	ParentLocationID *int64    `parquet:"ParentLocationId,optional"`
	CreatedAt        time.Time `parquet:"CreatedAt"`
	UpdatedAt        time.Time `parquet:"UpdatedAt"`
	IsActive         bool      `parquet:"IsActive"`
}

type Item struct {
	ItemID        int64     `parquet:"ItemId"`
	ItemCode      string    `parquet:"ItemCode"`
	ItemName      string    `parquet:"ItemName"`
	Category      string    `parquet:"Category"`
	UnitOfMeasure string    `parquet:"UnitOfMeasure"`
	CreatedAt     time.Time `parquet:"CreatedAt"`
	UpdatedAt     time.Time `parquet:"UpdatedAt"`
	IsActive      bool      `parquet:"IsActive"`
}

type Asset struct {
	AssetID      int64     `parquet:"AssetId"`
	AssetTag     string    `parquet:"AssetTag"`
	AssetName    string    `parquet:"AssetName"`
	SiteID       int64     `parquet:"SiteId"`
	LocationID   int64     `parquet:"LocationId"`
	SerialNumber string    `parquet:"SerialNumber"`
	Category     string    `parquet:"Category"`
	Status       string    `parquet:"Status"`
	Cost         float64   `parquet:"Cost"`
	PurchaseDate time.Time `parquet:"PurchaseDate"`
	VendorID     int64     `parquet:"VendorId"`
	CreatedAt    time.Time `parquet:"CreatedAt"`
	UpdatedAt    time.Time `parquet:"UpdatedAt"`
}

type Bill struct {
	BillID      int64     `parquet:"BillId"`
	VendorID    int64     `parquet:"VendorId"`
	BillNumber  string    `parquet:"BillNumber"`
	BillDate    time.Time `parquet:"BillDate"`
	DueDate     time.Time `parquet:"DueDate"`
	TotalAmount float64   `parquet:"TotalAmount"`
	Currency    string    `parquet:"Currency"`
	Status      string    `parquet:"Status"`
	CreatedAt   time.Time `parquet:"CreatedAt"`
	UpdatedAt   time.Time `parquet:"UpdatedAt"`
}

type PurchaseOrder struct {
	POID      int64     `parquet:"POId"`
	PONumber  string    `parquet:"PONumber"`
	VendorID  int64     `parquet:"VendorId"`
	PODate    time.Time `parquet:"PODate"`
	Status    string    `parquet:"Status"`
	SiteID    int64     `parquet:"SiteId"`
	CreatedAt time.Time `parquet:"CreatedAt"`
	UpdatedAt time.Time `parquet:"UpdatedAt"`
}

type PurchaseOrderLine struct {
	POLineID    int64   `parquet:"POLineId"`
	POID        int64   `parquet:"POId"`
	LineNumber  int64   `parquet:"LineNumber"`
	ItemID      int64   `parquet:"ItemId"`
	ItemCode    string  `parquet:"ItemCode"`
	Description string  `parquet:"Description"`
	Quantity    float64 `parquet:"Quantity"`
	UnitPrice   float64 `parquet:"UnitPrice"`
}

type SalesOrder struct {
	SOID       int64     `parquet:"SOId"`
	SONumber   string    `parquet:"SONumber"`
	CustomerID int64     `parquet:"CustomerId"`
	SODate     time.Time `parquet:"SODate"`
	Status     string    `parquet:"Status"`
	SiteID     int64     `parquet:"SiteId"`
	CreatedAt  time.Time `parquet:"CreatedAt"`
	UpdatedAt  time.Time `parquet:"UpdatedAt"`
}

type SalesOrderLine struct {
	SOLineID    int64   `parquet:"SOLineId"`
	SOID        int64   `parquet:"SOId"`
	LineNumber  int64   `parquet:"LineNumber"`
	ItemID      int64   `parquet:"ItemId"`
	ItemCode    string  `parquet:"ItemCode"`
	Description string  `parquet:"Description"`
	Quantity    float64 `parquet:"Quantity"`
	UnitPrice   float64 `parquet:"UnitPrice"`
}

type AssetTransaction struct {
	AssetTxnID     int64     `parquet:"AssetTxnId"`
	AssetID        int64     `parquet:"AssetId"`
	FromLocationID *int64    `parquet:"FromLocationId,optional"`
	ToLocationID   *int64    `parquet:"ToLocationId,optional"`
	TxnType        string    `parquet:"TxnType"`
	Quantity       int64     `parquet:"Quantity"`
	TxnDate        time.Time `parquet:"TxnDate"`
	Note           string    `parquet:"Note"`
}

type Dataset struct {
	Customers          []Customer
	Vendors            []Vendor
	Sites              []Site
	Locations          []Location
	Items              []Item
	Assets             []Asset
	Bills              []Bill
	PurchaseOrders     []PurchaseOrder
	PurchaseOrderLines []PurchaseOrderLine
	SalesOrders        []SalesOrder
	SalesOrderLines    []SalesOrderLine
	AssetTransactions  []AssetTransaction
}

// TableRows is one table of a Dataset with its rows erased to any.
type TableRows struct {
	Name  string
	Count int
	rows  func() []any
	write func() ([]byte, error)
}

func (t TableRows) Rows() []any { return t.rows() }

// Tables lists the dataset tables in catalog order.
func (d *Dataset) Tables() []TableRows {
	return []TableRows{
		tableOf("Customers", d.Customers),
		tableOf("Vendors", d.Vendors),
		tableOf("Sites", d.Sites),
		tableOf("Locations", d.Locations),
		tableOf("Items", d.Items),
		tableOf("Assets", d.Assets),
		tableOf("Bills", d.Bills),
		tableOf("PurchaseOrders", d.PurchaseOrders),
		tableOf("PurchaseOrderLines", d.PurchaseOrderLines),
		tableOf("SalesOrders", d.SalesOrders),
		tableOf("SalesOrderLines", d.SalesOrderLines),
		tableOf("AssetTransactions", d.AssetTransactions),
	}
}

func tableOf[T any](name string, rows []T) TableRows {
	return TableRows{
		Name:  name,
		Count: len(rows),
		rows: func() []any {
			out := make([]any, len(rows))
			for i := range rows {
				out[i] = rows[i]
			}
			return out
		},
		write: func() ([]byte, error) { return EncodeParquet(rows) },
	}
}
