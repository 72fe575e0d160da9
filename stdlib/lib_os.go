package stdlib

import (
	"os"
	"time"

	. "github.com/lollipopkit/coronest/api"
)

var sysLib = map[string]GoFunction{
	"time":    osTime,
	"date":    osDate,
	"tmp":     osTmpName,
	"get_env": osGetEnv,
	"exit":    osExit,
	"sleep":   osSleep,
}

func OpenOSLib(ls LkState) int {
	ls.NewLib(sysLib)
	pushArgs(ls)
	return 1
}

func pushArgs(ls LkState) {
	pushList(ls, os.Args)
	ls.SetField(-2, "args")
}

func osSleep(ls LkState) int {
	milliSec := ls.CheckInteger(1)
	time.Sleep(time.Duration(milliSec) * time.Millisecond)
	return 0
}

// os.time ([table, isUTC])
// http://www.lua.org/manual/5.3/manual.html#pdf-os.time
// lua-5.3.4/src/loslib.c#os_time()
func osTime(ls LkState) int {
	if ls.IsNoneOrNil(1) { /* called without args? */
		t := time.Now().UnixMilli() /* get current time */
		ls.PushInteger(t)
	} else {
		ls.CheckType(1, LK_TTABLE)
		isUTC := ls.OptBool(2, false)
		sec := _getField(ls, "sec", 0)
		min := _getField(ls, "min", 0)
		hour := _getField(ls, "hour", 12)
		day := _getField(ls, "day", -1)
		month := _getField(ls, "month", -1)
		year := _getField(ls, "year", -1)
		loc := func() *time.Location {
			if isUTC {
				return time.UTC
			}
			return time.Local
		}()
		t := time.Date(year, time.Month(month), day,
			hour, min, sec, 0, loc).UnixMilli()
		ls.PushInteger(t)
	}
	return 1
}

// os.date ([format [, time]])
// http://www.lua.org/manual/5.3/manual.html#pdf-os.date
// lua-5.3.4/src/loslib.c#os_date()
func osDate(ls LkState) int {
	format := ls.OptString(1, "%c")
	var t time.Time
	if ls.IsInteger(2) {
		t = time.Unix(ls.ToInteger(2), 0)
	} else {
		t = time.Now()
	}

	if format != "" && format[0] == '!' { /* UTC? */
		format = format[1:] /* skip '!' */
		t = t.In(time.UTC)
	}

	if format == "*t" {
		ls.CreateTable(0, 9) /* 9 = number of fields */
		_setField(ls, "sec", t.Second())
		_setField(ls, "min", t.Minute())
		_setField(ls, "hour", t.Hour())
		_setField(ls, "day", t.Day())
		_setField(ls, "month", int(t.Month()))
		_setField(ls, "year", t.Year())
		_setField(ls, "wday", int(t.Weekday())+1)
		_setField(ls, "yday", t.YearDay())
	} else if format == "%c" {
		ls.PushString(t.Format(time.ANSIC))
	} else {
		ls.PushString(format) // TODO
	}

	return 1
}

func _setField(ls LkState, key string, value int) {
	ls.PushInteger(int64(value))
	ls.SetField(-2, key)
}

// os.tmpname ()
// http://www.lua.org/manual/5.3/manual.html#pdf-os.tmpname
func osTmpName(ls LkState) int {
	ls.PushString(os.TempDir())
	return 1
}

// os.getenv (varname)
// http://www.lua.org/manual/5.3/manual.html#pdf-os.getenv
// lua-5.3.4/src/loslib.c#os_getenv()
func osGetEnv(ls LkState) int {
	key := ls.CheckString(1)
	if env := os.Getenv(key); env != "" {
		ls.PushString(env)
	} else {
		ls.PushNil()
	}
	return 1
}

// os.exit ([code])
// http://www.lua.org/manual/5.3/manual.html#pdf-os.exit
// lua-5.3.4/src/loslib.c#os_exit()
func osExit(ls LkState) int {
	code := ls.OptInteger(1, 0)
	os.Exit(int(code))
	return 0
}
