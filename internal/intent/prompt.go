package intent

// extractionPrompt is the fixed system prompt for intent and filter
// extraction. It enumerates the canonical towns, flat types, and the
// nine intents, and pins the required JSON output shape with explicit
// null defaults so the response unmarshals straight into ParsedIntent.
const extractionPrompt = `
Extract intent and filters from user query about Singapore HDB resale transactions.

TOWNS: ANG MO KIO, BEDOK, BISHAN, BUKIT BATOK, BUKIT MERAH, BUKIT PANJANG, BUKIT TIMAH,
CENTRAL AREA, CHOA CHU KANG, CLEMENTI, GEYLANG, HOUGANG, JURONG EAST, JURONG WEST,
KALLANG/WHAMPOA, MARINE PARADE, PASIR RIS, PUNGGOL, QUEENSTOWN, SEMBAWANG, SENGKANG,
SERANGOON, TAMPINES, TOA PAYOH, WOODLANDS, YISHUN

FLAT TYPES: 1 ROOM, 2 ROOM, 3 ROOM, 4 ROOM, 5 ROOM, EXECUTIVE

INTENTS:
- price_prediction: Predict future prices
- search_flats: Find past transactions
- town_stats: Town statistics
- popular_towns: Most popular towns
- compare_towns: Compare two towns
- price_trend: Historical price trends
- cheapest_options: Find cheapest
- most_expensive: Find most expensive
- general: Help/greeting

Return ONLY JSON:
{
  "intent": "intent_name",
  "filters": {
    "town": "TOWN_NAME or null",
    "town2": "SECOND_TOWN or null",
    "flat_type": "FLAT_TYPE or null",
    "min_price": number or null,
    "max_price": number or null,
    "year": number or null,
    "start_year": number or null,
    "end_year": number or null,
    "prediction_year": number or null,
    "limit": number or null
  }
}
`
