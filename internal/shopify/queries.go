package shopify

// GraphQL documents sent to the commerce platform. Fragments are concatenated
// into the operations that use them so every document is self-contained.

const imageFragment = `
fragment image on Image {
  url
  altText
  width
  height
}
`

const seoFragment = `
fragment seo on SEO {
  title
  description
}
`

const productFragment = `
fragment product on Product {
  id
  handle
  availableForSale
  title
  description
  descriptionHtml
  options {
    id
    name
    values
  }
  priceRange {
    maxVariantPrice {
      amount
      currencyCode
    }
    minVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        selectedOptions {
          name
          value
        }
        price {
          amount
          currencyCode
        }
      }
    }
  }
  featuredImage {
    ...image
  }
  images(first: 20) {
    edges {
      node {
        ...image
      }
    }
  }
  seo {
    ...seo
  }
  tags
  updatedAt
}
` + imageFragment + seoFragment

const cartFragment = `
fragment cart on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 100) {
    edges {
      node {
        id
        quantity
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            selectedOptions {
              name
              value
            }
            product {
              id
              handle
              title
              featuredImage {
                ...image
              }
            }
          }
        }
      }
    }
  }
}
` + imageFragment

const queryCart = `
query getCart($cartId: ID!) {
  cart(id: $cartId) {
    ...cart
  }
}
` + cartFragment

const mutationCartCreate = `
mutation createCart($lineItems: [CartLineInput!]) {
  cartCreate(input: { lines: $lineItems }) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const mutationCartLinesAdd = `
mutation addToCart($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const mutationCartLinesUpdate = `
mutation editCartItems($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const mutationCartLinesRemove = `
mutation removeFromCart($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart {
      ...cart
    }
    userErrors {
      field
      message
    }
  }
}
` + cartFragment

const queryProduct = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    ...product
  }
}
` + productFragment

const queryProducts = `
query getProducts($sortKey: ProductSortKeys, $reverse: Boolean, $query: String, $first: Int!) {
  products(sortKey: $sortKey, reverse: $reverse, query: $query, first: $first) {
    edges {
      node {
        ...product
      }
    }
  }
}
` + productFragment

const queryProductRecommendations = `
query getProductRecommendations($productId: ID!) {
  productRecommendations(productId: $productId) {
    ...product
  }
}
` + productFragment

const queryCollections = `
query getCollections {
  collections(first: 100, sortKey: TITLE) {
    edges {
      node {
        handle
        title
        description
        seo {
          ...seo
        }
        updatedAt
      }
    }
  }
}
` + seoFragment

const queryCollection = `
query getCollection($handle: String!) {
  collection(handle: $handle) {
    handle
    title
    description
    seo {
      ...seo
    }
    updatedAt
  }
}
` + seoFragment

const queryCollectionProducts = `
query getCollectionProducts($handle: String!, $sortKey: ProductCollectionSortKeys, $reverse: Boolean) {
  collection(handle: $handle) {
    products(sortKey: $sortKey, reverse: $reverse, first: 100) {
      edges {
        node {
          ...product
        }
      }
    }
  }
}
` + productFragment

const mutationCustomerCreate = `
mutation customerCreate($input: CustomerCreateInput!) {
  customerCreate(input: $input) {
    customer {
      id
      email
      firstName
      lastName
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}
`

const mutationAccessTokenCreate = `
mutation customerAccessTokenCreate($input: CustomerAccessTokenCreateInput!) {
  customerAccessTokenCreate(input: $input) {
    customerAccessToken {
      accessToken
      expiresAt
    }
    customerUserErrors {
      code
      field
      message
    }
  }
}
`

const mutationAccessTokenDelete = `
mutation customerAccessTokenDelete($customerAccessToken: String!) {
  customerAccessTokenDelete(customerAccessToken: $customerAccessToken) {
    deletedAccessToken
    userErrors {
      field
      message
    }
  }
}
`

const queryCustomer = `
query getCustomer($customerAccessToken: String!) {
  customer(customerAccessToken: $customerAccessToken) {
    id
    email
    firstName
    lastName
    phone
    orders(first: 20, sortKey: PROCESSED_AT, reverse: true) {
      edges {
        node {
          id
          orderNumber
          processedAt
          financialStatus
          fulfillmentStatus
          totalPrice {
            amount
            currencyCode
          }
        }
      }
    }
  }
}
`
