package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		panic(err)
	}
}

// all source data (wiki tables, election records) and every refresh
// schedule are KST, so pin the timezone instead of trusting wherever
// the server happens to be deployed
func Now() time.Time {
	return time.Now().In(Location)
}
