package shopify

import "github.com/richxcame/order-fraud-guard/internal/orders"

const ordersQuery = `query Orders($query: String!, $first: Int!) {
  orders(first: $first, query: $query, sortKey: CREATED_AT) {
    edges {
      node {
        id
        name
        createdAt
        cancelledAt
        closed
        displayFinancialStatus
        displayFulfillmentStatus
        clientIp
        totalPriceSet { shopMoney { amount } }
        customer {
          email
          phone
          firstName
          lastName
          numberOfOrders
          amountSpent { amount }
        }
        shippingAddress {
          firstName lastName address1 address2 city provinceCode countryCodeV2 zip phone latitude longitude
        }
        billingAddress {
          firstName lastName address1 address2 city provinceCode countryCodeV2 zip phone
        }
        transactions(first: 5) {
          kind
          gateway
          paymentDetails {
            ... on CardPaymentDetails { bin company number avsResultCode cvvResultCode }
          }
        }
        lineItems(first: 50) {
          edges {
            node {
              id
              title
              quantity
              sku
              product { id }
              originalUnitPriceSet { shopMoney { amount } }
              totalDiscountSet { shopMoney { amount } }
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLResponse struct {
	Data struct {
		Orders struct {
			Edges []struct {
				Node orderNode `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type money struct {
	ShopMoney struct {
		Amount orders.FlexString `json:"amount"`
	} `json:"shopMoney"`
}

type orderNode struct {
	ID                       string        `json:"id"`
	Name                     string        `json:"name"`
	CreatedAt                string        `json:"createdAt"`
	CancelledAt              *string       `json:"cancelledAt"`
	Closed                   bool          `json:"closed"`
	DisplayFinancialStatus   string        `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string        `json:"displayFulfillmentStatus"`
	ClientIP                 string        `json:"clientIp"`
	TotalPriceSet            money         `json:"totalPriceSet"`
	Customer                 *customer     `json:"customer"`
	ShippingAddress          *address      `json:"shippingAddress"`
	BillingAddress           *address      `json:"billingAddress"`
	Transactions             []transaction `json:"transactions"`
	LineItems                struct {
		Edges []struct {
			Node lineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type customer struct {
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	FirstName      string            `json:"firstName"`
	LastName       string            `json:"lastName"`
	NumberOfOrders orders.FlexString `json:"numberOfOrders"`
	AmountSpent    struct {
		Amount orders.FlexString `json:"amount"`
	} `json:"amountSpent"`
}

type address struct {
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Address1      string   `json:"address1"`
	Address2      string   `json:"address2"`
	City          string   `json:"city"`
	ProvinceCode  string   `json:"provinceCode"`
	CountryCodeV2 string   `json:"countryCodeV2"`
	Zip           string   `json:"zip"`
	Phone         string   `json:"phone"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

type transaction struct {
	Kind           string `json:"kind"`
	Gateway        string `json:"gateway"`
	PaymentDetails *struct {
		BIN           string `json:"bin"`
		Company       string `json:"company"`
		Number        string `json:"number"`
		AVSResultCode string `json:"avsResultCode"`
		CVVResultCode string `json:"cvvResultCode"`
	} `json:"paymentDetails"`
}

type lineItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	SKU      string `json:"sku"`
	Product  *struct {
		ID string `json:"id"`
	} `json:"product"`
	OriginalUnitPriceSet money `json:"originalUnitPriceSet"`
	TotalDiscountSet     money `json:"totalDiscountSet"`
}
