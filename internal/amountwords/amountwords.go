// Package amountwords spells out whole Taka amounts for cash memos using the
// Indian crore/lakh grouping, in English or Bengali.
package amountwords

import "strings"

// Supported memo languages.
const (
	English = "en"
	Bengali = "bn"
)

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
	hundred  = 100
)

var enOnes = [...]string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var enTens = [...]string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

var bnNumbers = [100]string{
	"শূন্য", "এক", "দুই", "তিন", "চার", "পাঁচ", "ছয়", "সাত", "আট", "নয়",
	"দশ", "এগারো", "বারো", "তেরো", "চৌদ্দ", "পনেরো", "ষোলো", "সতেরো", "আঠারো", "উনিশ",
	"বিশ", "একুশ", "বাইশ", "তেইশ", "চব্বিশ", "পঁচিশ", "ছাব্বিশ", "সাতাশ", "আটাশ", "ঊনত্রিশ",
	"ত্রিশ", "একত্রিশ", "বত্রিশ", "তেত্রিশ", "চৌত্রিশ", "পঁয়ত্রিশ", "ছত্রিশ", "সাঁইত্রিশ", "আটত্রিশ", "ঊনচল্লিশ",
	"চল্লিশ", "একচল্লিশ", "বিয়াল্লিশ", "তেতাল্লিশ", "চুয়াল্লিশ", "পঁয়তাল্লিশ", "ছেচল্লিশ", "সাতচল্লিশ", "আটচল্লিশ", "ঊনপঞ্চাশ",
	"পঞ্চাশ", "একান্ন", "বাহান্ন", "তিপ্পান্ন", "চুয়ান্ন", "পঞ্চান্ন", "ছাপ্পান্ন", "সাতান্ন", "আটান্ন", "ঊনষাট",
	"ষাট", "একষট্টি", "বাষট্টি", "তেষট্টি", "চৌষট্টি", "পঁয়ষট্টি", "ছেষট্টি", "সাতষট্টি", "আটষট্টি", "ঊনসত্তর",
	"সত্তর", "একাত্তর", "বাহাত্তর", "তিয়াত্তর", "চুয়াত্তর", "পঁচাত্তর", "ছিয়াত্তর", "সাতাত্তর", "আটাত্তর", "ঊনআশি",
	"আশি", "একাশি", "বিরাশি", "তিরাশি", "চুরাশি", "পঁচাশি", "ছিয়াশি", "সাতাশি", "অষ্টআশি", "ঊননব্বই",
	"নব্বই", "একানব্বই", "বিরানব্বই", "তিরানব্বই", "চুরানব্বই", "পঁচানব্বই", "ছিয়ানব্বই", "সাতানব্বই", "আটানব্বই", "নিরানব্বই",
}

// ToEnglish spells n in English, e.g. 1205 is "one thousand two hundred and five".
func ToEnglish(n int64) string {
	if n == 0 {
		return enOnes[0]
	}
	if n < 0 {
		return "minus " + strings.Join(english(magnitude(n)), " ")
	}
	return strings.Join(english(uint64(n)), " ")
}

// magnitude is |n| without overflowing at math.MinInt64.
func magnitude(n int64) uint64 {
	u := uint64(n)
	if n < 0 {
		u = -u
	}
	return u
}

func english(n uint64) []string {
	var words []string
	if n >= crore {
		words = append(words, english(n/crore)...)
		words = append(words, "crore")
		n %= crore
	}
	if n >= lakh {
		words = append(words, englishBelowHundred(n/lakh), "lakh")
		n %= lakh
	}
	if n >= thousand {
		words = append(words, englishBelowHundred(n/thousand), "thousand")
		n %= thousand
	}
	if n >= hundred {
		words = append(words, enOnes[n/hundred], "hundred")
		n %= hundred
	}
	if n > 0 {
		if len(words) > 0 {
			words = append(words, "and")
		}
		words = append(words, englishBelowHundred(n))
	}
	return words
}

func englishBelowHundred(n uint64) string {
	if n < 20 {
		return enOnes[n]
	}
	if n%10 == 0 {
		return enTens[n/10]
	}
	return enTens[n/10] + " " + enOnes[n%10]
}

// ToBengali spells n in Bengali, e.g. 1205 is "এক হাজার দুই শত পাঁচ".
func ToBengali(n int64) string {
	if n == 0 {
		return bnNumbers[0]
	}
	if n < 0 {
		return "ঋণাত্মক " + strings.Join(bengali(magnitude(n)), " ")
	}
	return strings.Join(bengali(uint64(n)), " ")
}

func bengali(n uint64) []string {
	var words []string
	if n >= crore {
		words = append(words, bengali(n/crore)...)
		words = append(words, "কোটি")
		n %= crore
	}
	if n >= lakh {
		words = append(words, bnNumbers[n/lakh], "লাখ")
		n %= lakh
	}
	if n >= thousand {
		words = append(words, bnNumbers[n/thousand], "হাজার")
		n %= thousand
	}
	if n >= hundred {
		words = append(words, bnNumbers[n/hundred], "শত")
		n %= hundred
	}
	if n > 0 {
		words = append(words, bnNumbers[n])
	}
	return words
}

// Words spells n in lang. Unknown languages fall back to English.
func Words(n int64, lang string) string {
	if lang == Bengali {
		return ToBengali(n)
	}
	return ToEnglish(n)
}

// Taka spells n with the invoice suffix for lang.
func Taka(n int64, lang string) string {
	if lang == Bengali {
		return ToBengali(n) + " টাকা মাত্র"
	}
	return ToEnglish(n) + " Taka Only"
}
