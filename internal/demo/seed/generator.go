package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const historyDays = 60

// Generator produces the same Dataset for the same seed and reference time.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

func NewGenerator(seed int64) *Generator {
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (g *Generator) Generate() *Dataset {
	now := g.now().UTC().Truncate(time.Second)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := &Dataset{}

	for i, c := range customerSeeds {
		d.Customers = append(d.Customers, Customer{
			CustomerID: int64(i + 1), CustomerCode: c[0], CustomerName: c[1], Email: c[2], Phone: c[3],
			BillingAddress1: c[4], BillingCity: c[5], BillingCountry: c[6],
			CreatedAt: now, UpdatedAt: now, IsActive: true,
		})
	}
	for i, v := range vendorSeeds {
		d.Vendors = append(d.Vendors, Vendor{
			VendorID: int64(i + 1), VendorCode: v[0], VendorName: v[1], Email: v[2], Phone: v[3],
			AddressLine1: v[4], City: v[5], Country: v[6],
			CreatedAt: now, UpdatedAt: now, IsActive: true,
		})
	}
	for i, s := range siteSeeds {
		d.Sites = append(d.Sites, Site{
			SiteID: int64(i + 1), SiteCode: s[0], SiteName: s[1], AddressLine1: s[2], City: s[3],
			Country: s[4], TimeZone: s[5],
			CreatedAt: now, UpdatedAt: now, IsActive: true,
		})
	}
	for i, it := range itemSeeds {
		d.Items = append(d.Items, Item{
			ItemID: int64(i + 1), ItemCode: it[0], ItemName: it[1], Category: it[2], UnitOfMeasure: it[3],
			CreatedAt: now, UpdatedAt: now, IsActive: true,
		})
	}

	for _, site := range d.Sites {
		count := 8 + g.rnd.Intn(5)
		for i, idx := range g.rnd.Perm(len(locationTypes))[:count] {
			d.Locations = append(d.Locations, Location{
				LocationID:   int64(len(d.Locations) + 1),
				SiteID:       site.SiteID,
				LocationCode: fmt.Sprintf("LOC%03d", i+1),
				LocationName: fmt.Sprintf("%s - %s", locationTypes[idx], site.SiteCode),
				CreatedAt:    now, UpdatedAt: now, IsActive: true,
			})
		}
	}

	for _, location := range d.Locations {
		count := 2 + g.rnd.Intn(7)
		for i := 0; i < count; i++ {
			n := len(d.Assets) + 1
			d.Assets = append(d.Assets, Asset{
				AssetID:      int64(n),
				AssetTag:     fmt.Sprintf("ASSET%05d", n),
				AssetName:    fmt.Sprintf("%s %d", pickOne(g.rnd, assetKinds), n),
				SiteID:       location.SiteID,
				LocationID:   location.LocationID,
				SerialNumber: fmt.Sprintf("SN%08d", n),
				Category:     pickOne(g.rnd, assetCategories),
				Status:       pickWeighted(g.rnd, assetStatuses),
				Cost:         g.amount(50, 8000),
				PurchaseDate: g.dateWithin(today),
				VendorID:     g.pickID(len(d.Vendors)),
				CreatedAt:    now, UpdatedAt: now,
			})
		}
	}

	for i := 1; i <= 50; i++ {
		po := PurchaseOrder{
			POID:      int64(i),
			PONumber:  fmt.Sprintf("PO%d%04d", today.Year(), i),
			VendorID:  g.pickID(len(d.Vendors)),
			PODate:    g.dateWithin(today),
			Status:    pickWeighted(g.rnd, purchaseOrderStatuses),
			SiteID:    g.pickID(len(d.Sites)),
			CreatedAt: now, UpdatedAt: now,
		}
		d.PurchaseOrders = append(d.PurchaseOrders, po)
		for line, item := range g.sampleItems(d.Items, 1+g.rnd.Intn(5)) {
			d.PurchaseOrderLines = append(d.PurchaseOrderLines, PurchaseOrderLine{
				POLineID:    int64(len(d.PurchaseOrderLines) + 1),
				POID:        po.POID,
				LineNumber:  int64(line + 1),
				ItemID:      item.ItemID,
				ItemCode:    item.ItemCode,
				Description: "Purchase of " + item.ItemCode,
				Quantity:    float64(1 + g.rnd.Intn(10)),
				UnitPrice:   g.amount(10, 1000),
			})
		}
	}

	for i := 1; i <= 75; i++ {
		so := SalesOrder{
			SOID:       int64(i),
			SONumber:   fmt.Sprintf("SO%d%04d", today.Year(), i),
			CustomerID: g.pickID(len(d.Customers)),
			SODate:     g.dateWithin(today),
			Status:     pickWeighted(g.rnd, salesOrderStatuses),
			SiteID:     g.pickID(len(d.Sites)),
			CreatedAt:  now, UpdatedAt: now,
		}
		d.SalesOrders = append(d.SalesOrders, so)
		for line, item := range g.sampleItems(d.Items, 1+g.rnd.Intn(3)) {
			d.SalesOrderLines = append(d.SalesOrderLines, SalesOrderLine{
				SOLineID:    int64(len(d.SalesOrderLines) + 1),
				SOID:        so.SOID,
				LineNumber:  int64(line + 1),
				ItemID:      item.ItemID,
				ItemCode:    item.ItemCode,
				Description: "Sale of " + item.ItemCode,
				Quantity:    float64(1 + g.rnd.Intn(5)),
				UnitPrice:   g.amount(50, 2000),
			})
		}
	}

	for i := 1; i <= 40; i++ {
		billDate := g.dateWithin(today)
		d.Bills = append(d.Bills, Bill{
			BillID:      int64(i),
			VendorID:    g.pickID(len(d.Vendors)),
			BillNumber:  fmt.Sprintf("BILL%d%04d", today.Year(), i),
			BillDate:    billDate,
			DueDate:     billDate.AddDate(0, 0, 15+g.rnd.Intn(31)),
			TotalAmount: g.amount(500, 25000),
			Currency:    "USD",
			Status:      pickWeighted(g.rnd, billStatuses),
			CreatedAt:   now, UpdatedAt: now,
		})
	}

	for i := 1; i <= 200; i++ {
		txn := AssetTransaction{
			AssetTxnID: int64(i),
			AssetID:    g.pickID(len(d.Assets)),
			TxnType:    pickWeighted(g.rnd, transactionTypes),
			Quantity:   1,
			TxnDate:    g.dateWithin(today).Add(time.Duration(g.rnd.Intn(86400)) * time.Second),
		}
		if txn.TxnType == "Move" {
			from := g.pickID(len(d.Locations))
			to := g.pickID(len(d.Locations) - 1)
			if to >= from {
				to++
			}
			txn.FromLocationID, txn.ToLocationID = &from, &to
			txn.Note = fmt.Sprintf("Asset moved from location %d to %d", from, to)
		} else {
			if txn.TxnType != "Create" {
				from := g.pickID(len(d.Locations))
				txn.FromLocationID = &from
			}
			if txn.TxnType != "Dispose" {
				to := g.pickID(len(d.Locations))
				txn.ToLocationID = &to
			}
			txn.Note = txn.TxnType + " transaction for asset maintenance"
		}
		d.AssetTransactions = append(d.AssetTransactions, txn)
	}
	return d
}

// dateWithin returns a day in the historyDays before today.
func (g *Generator) dateWithin(today time.Time) time.Time {
	return today.AddDate(0, 0, -historyDays+g.rnd.Intn(historyDays))
}

func (g *Generator) amount(min, max float64) float64 {
	return round2(min + g.rnd.Float64()*(max-min))
}

// pickID returns a 1-based id in [1, n].
func (g *Generator) pickID(n int) int64 {
	return int64(g.rnd.Intn(n) + 1)
}

func (g *Generator) sampleItems(items []Item, n int) []Item {
	out := make([]Item, 0, n)
	for _, idx := range g.rnd.Perm(len(items))[:n] {
		out = append(out, items[idx])
	}
	return out
}

type weighted struct {
	value  string
	weight int
}

func pickWeighted(r *rand.Rand, choices []weighted) string {
	total := 0
	for _, c := range choices {
		total += c.weight
	}
	p := r.Intn(total)
	for _, c := range choices {
		if p < c.weight {
			return c.value
		}
		p -= c.weight
	}
	return choices[len(choices)-1].value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne(r *rand.Rand, values []string) string {
	return values[r.Intn(len(values))]
}
